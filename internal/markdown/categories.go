package markdown

import "strings"

// umbrellaHeading is the H2 that some lists use to wrap their real taxonomy.
const umbrellaHeading = "Software"

// extractCategories returns the authoritative category names, preferring
// the table of contents and falling back to linked H2 sections.
func extractCategories(tokens []Token) []string {
	cats := newOrderedSet()

	if start := findTOC(tokens); start >= 0 {
		for _, tok := range tokens[start+1:] {
			if tok.IsHeading(2) && tok.Text != umbrellaHeading {
				break
			}
			if tok.Kind != TokenList {
				continue
			}
			for _, entry := range tok.Entries {
				addTOCCandidate(cats, entry.Text)
				for _, child := range entry.Children {
					addTOCCandidate(cats, child.Text)
				}
			}
		}
	}

	if cats.Len() > 0 {
		return cats.Values()
	}

	for i, tok := range tokens {
		if tok.Kind != TokenHeading || tok.Depth != 2 {
			continue
		}
		if !IsNonCategory(tok.Text) && !isTOCName(tok.Text) && followedByListItems(tokens, i) {
			cats.Add(tok.Text)
		}
	}
	return cats.Values()
}

// findTOC returns the index of the table-of-contents heading, or -1.
func findTOC(tokens []Token) int {
	for i, tok := range tokens {
		if tok.Kind == TokenHeading && isTOCHeading(tok.Text) {
			return i
		}
	}
	return -1
}

func isTOCHeading(text string) bool {
	return strings.Contains(text, "Contents") || strings.EqualFold(text, "Table of contents")
}

// isTOCName matches only the exact table-of-contents titles, so a section
// such as "Contents Delivery" can still be a category.
func isTOCName(text string) bool {
	return text == "Contents" || strings.EqualFold(text, "Table of contents")
}

func addTOCCandidate(cats *orderedSet, text string) {
	l, ok := findLink(text)
	if !ok {
		return
	}
	name := strings.TrimSpace(l.Title)
	if name == "" || IsNonCategory(name) {
		return
	}
	cats.Add(name)
}

// followedByListItems reports whether a list holding at least one linked
// entry appears after tokens[idx] and before the next heading of depth <= 2.
func followedByListItems(tokens []Token, idx int) bool {
	for _, tok := range tokens[idx+1:] {
		if tok.IsHeading(2) {
			return false
		}
		if tok.Kind != TokenList {
			continue
		}
		for _, entry := range tok.Entries {
			if hasLink(entry.Text) {
				return true
			}
		}
	}
	return false
}

// orderedSet keeps unique strings in insertion order.
type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// Add inserts s and reports whether it was new.
func (s *orderedSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

func (s *orderedSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

func (s *orderedSet) Len() int { return len(s.values) }

func (s *orderedSet) Values() []string {
	return append([]string{}, s.values...)
}
