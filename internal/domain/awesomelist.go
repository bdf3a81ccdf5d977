package domain

import "time"

// ListItem is a single resource entry of an awesome list.
//
// JSON field names match the records already persisted by earlier
// versions of the scraper, so stored lists round-trip unchanged.
type ListItem struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the md5 hex digest of "title|url".
	// It never depends on category or description.
	ID string `json:"id"`

	Title string `json:"title"`
	URL   string `json:"url"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Description string `json:"description"`

	// Category and Subcategory come from the parse state (headings),
	// not from the entry itself.
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`

	DemoURL       string `json:"demoUrl,omitempty"`
	SourceCodeURL string `json:"sourceCodeUrl,omitempty"`
	License       string `json:"license,omitempty"`
	TechStack     string `json:"techStack,omitempty"`

	// ─────────────────────────────
	// Versioning
	// ─────────────────────────────

	// FirstSeen is set once and carried across re-parses.
	FirstSeen time.Time `json:"firstSeen"`

	// IsNew is recomputed on every compare pass. Once cleared it stays
	// cleared.
	IsNew bool `json:"isNew"`
}

// AwesomeList is the structured form of one awesome-list README.
type AwesomeList struct {
	// ID is the "owner/repo" composite key.
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`

	// Items are kept in document order.
	Items []ListItem `json:"items"`

	// Categories are unique, in first-seen document order.
	Categories []string `json:"categories"`

	// Subcategories maps a category to its unique subcategories in order.
	Subcategories map[string][]string `json:"subcategories"`

	LastUpdated time.Time `json:"lastUpdated"`
}

// ListID builds the composite key of a list.
func ListID(owner, repo string) string {
	return owner + "/" + repo
}

// Clone returns a deep copy so callers can rewrite items without
// touching the original value.
func (l *AwesomeList) Clone() *AwesomeList {
	if l == nil {
		return nil
	}
	out := *l
	out.Items = append([]ListItem(nil), l.Items...)
	out.Categories = append([]string(nil), l.Categories...)
	out.Subcategories = make(map[string][]string, len(l.Subcategories))
	for k, v := range l.Subcategories {
		out.Subcategories[k] = append([]string(nil), v...)
	}
	return &out
}

// CountNew returns how many items are currently flagged new.
func (l *AwesomeList) CountNew() int {
	n := 0
	for _, it := range l.Items {
		if it.IsNew {
			n++
		}
	}
	return n
}

// TrackedRepository is a GitHub repository whose README is scraped.
type TrackedRepository struct {
	Owner       string `json:"owner" yaml:"owner"`
	Repo        string `json:"repo" yaml:"repo"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Branch      string `json:"branch" yaml:"branch"`
}

// ID returns the "owner/repo" key of the repository.
func (t TrackedRepository) ID() string {
	return ListID(t.Owner, t.Repo)
}
