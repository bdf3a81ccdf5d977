package markdown

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// ParseOptions tunes a single Parse call. The zero value is valid.
type ParseOptions struct {
	// Name overrides the title-derived list name.
	Name string

	// UmbrellaThreshold overrides DefaultUmbrellaThreshold.
	UmbrellaThreshold int

	// Lexer replaces the default goldmark lexer.
	Lexer Lexer

	// Now stamps firstSeen and lastUpdated; defaults to time.Now.
	Now func() time.Time
}

var defaultLexer = NewGoldmarkLexer(0)

// Parse converts an awesome-list README into a structured list.
// It has no side effects; every item comes back with isNew set and
// firstSeen stamped at parse time, for versions.Compare to correct.
func Parse(src string, owner, repo string, opts ParseOptions) (*domain.AwesomeList, error) {
	lexer := opts.Lexer
	if lexer == nil {
		lexer = defaultLexer
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	ts := now().UTC()

	tokens, err := lexer.Tokenize([]byte(src))
	if err != nil {
		if !errors.Is(err, domain.ErrParseFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrParseFailure, err)
		}
		return nil, fmt.Errorf("tokenize %s: %w", domain.ListID(owner, repo), err)
	}

	known := extractCategories(tokens)
	st := extractItems(tokens, known, ts)
	categories, subcategories := st.result()
	items, categories, subcategories := CollapseUmbrella(st.items, categories, subcategories, opts.UmbrellaThreshold)

	name := opts.Name
	if name == "" {
		name = listName(tokens, repo)
	}

	if items == nil {
		items = []domain.ListItem{}
	}

	return &domain.AwesomeList{
		ID:            domain.ListID(owner, repo),
		Name:          name,
		Description:   listDescription(tokens),
		Owner:         owner,
		Repo:          repo,
		Items:         items,
		Categories:    categories,
		Subcategories: subcategories,
		LastUpdated:   ts,
	}, nil
}
