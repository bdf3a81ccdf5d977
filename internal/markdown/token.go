package markdown

// TokenKind tags the block-level tokens the extractors understand.
type TokenKind int

const (
	// TokenOther covers blocks the extractors skip (code, html, tables, quotes).
	TokenOther TokenKind = iota
	TokenHeading
	TokenParagraph
	TokenList
)

func (k TokenKind) String() string {
	switch k {
	case TokenHeading:
		return "heading"
	case TokenParagraph:
		return "paragraph"
	case TokenList:
		return "list"
	default:
		return "other"
	}
}

// Token is one top-level block of a document.
//
// Text holds raw inline source (link syntax intact) for headings and
// paragraphs. Entries is only set for lists.
type Token struct {
	Kind    TokenKind
	Depth   int
	Text    string
	Entries []ListEntry
}

// ListEntry is one list item with its own raw text and nested items.
type ListEntry struct {
	Text     string
	Children []ListEntry
}

// IsHeading reports whether t is a heading at depth <= maxDepth.
func (t Token) IsHeading(maxDepth int) bool {
	return t.Kind == TokenHeading && t.Depth <= maxDepth
}

// Lexer turns a raw document into the flat token sequence.
type Lexer interface {
	Tokenize(src []byte) ([]Token, error)
}
