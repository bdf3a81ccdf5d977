package markdown

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// itemState is the parse state threaded through the token walk.
// apply is its whole transition table.
type itemState struct {
	tokens []Token
	known  *orderedSet
	now    time.Time

	category    string
	subcategory string
	// pending marks an umbrella category that is registered only once
	// something is filed under it.
	pending bool

	items         []domain.ListItem
	categories    *orderedSet
	subcategories map[string]*orderedSet
}

func newItemState(tokens []Token, known []string, now time.Time) *itemState {
	ks := newOrderedSet()
	for _, k := range known {
		ks.Add(k)
	}
	return &itemState{
		tokens:        tokens,
		known:         ks,
		now:           now,
		categories:    newOrderedSet(),
		subcategories: make(map[string]*orderedSet),
	}
}

// extractItems walks tokens once and returns the populated state.
func extractItems(tokens []Token, known []string, now time.Time) *itemState {
	st := newItemState(tokens, known, now)
	for i := range tokens {
		st.apply(i)
	}
	return st
}

func (s *itemState) apply(i int) {
	tok := s.tokens[i]
	switch tok.Kind {
	case TokenHeading:
		switch tok.Depth {
		case 2:
			s.onSection(i, tok.Text)
		case 3:
			s.onSubsection(tok.Text)
		}
	case TokenList:
		if s.category == "" {
			return
		}
		for _, entry := range tok.Entries {
			s.emit(entry.Text)
		}
	}
}

func (s *itemState) onSection(i int, text string) {
	switch {
	case s.known.Has(text):
		s.enter(text, false)
	case text == umbrellaHeading:
		// Pass-through unless the umbrella directly holds linked lists,
		// in which case it collects them until the normalizer splits it.
		if followedByListItems(s.tokens, i) {
			s.enter(text, true)
		}
	case !IsNonCategory(text) && !isTOCName(text) && followedByListItems(s.tokens, i):
		s.enter(text, false)
	default:
		s.category, s.subcategory, s.pending = "", "", false
	}
}

func (s *itemState) onSubsection(text string) {
	if s.known.Has(text) {
		s.enter(text, false)
		return
	}
	if s.category == "" {
		return
	}
	s.subcategory = text
	s.register()
	s.subcategories[s.category].Add(text)
}

func (s *itemState) enter(category string, lazy bool) {
	s.category = category
	s.subcategory = ""
	s.pending = lazy
	if !lazy {
		s.register()
	}
}

// register records the current category the first time it is seen.
func (s *itemState) register() {
	s.pending = false
	if s.categories.Add(s.category) {
		s.subcategories[s.category] = newOrderedSet()
	}
}

func (s *itemState) emit(text string) {
	l, ok := findLink(text)
	if !ok || IsNonContentLink(l.Title, l.URL) {
		return
	}
	if s.pending {
		s.register()
	}

	meta := ExtractMetadata(cleanDescription(strings.Replace(text, l.Raw, "", 1)))

	s.items = append(s.items, domain.ListItem{
		ID:            GenerateItemID(l.Title, l.URL),
		Title:         l.Title,
		URL:           l.URL,
		Description:   meta.Description,
		Category:      s.category,
		Subcategory:   s.subcategory,
		DemoURL:       meta.DemoURL,
		SourceCodeURL: meta.SourceCodeURL,
		License:       meta.License,
		TechStack:     meta.TechStack,
		FirstSeen:     s.now,
		IsNew:         true,
	})
}

// result returns the collected categories and subcategory map.
func (s *itemState) result() ([]string, map[string][]string) {
	cats := s.categories.Values()
	subs := make(map[string][]string, len(cats))
	for _, c := range cats {
		subs[c] = s.subcategories[c].Values()
	}
	return cats, subs
}
