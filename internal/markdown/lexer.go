package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// DefaultMaxDocumentSize bounds the README size accepted by the lexer.
const DefaultMaxDocumentSize = 10 << 20 // 10 MiB

// GoldmarkLexer maps goldmark's block AST onto Token values.
// It holds no per-document state and is safe for concurrent use.
type GoldmarkLexer struct {
	parser  parser.Parser
	maxSize int
}

// NewGoldmarkLexer builds a lexer with GFM block syntax enabled.
// maxSize <= 0 selects DefaultMaxDocumentSize.
func NewGoldmarkLexer(maxSize int) *GoldmarkLexer {
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	return &GoldmarkLexer{
		parser:  md.Parser(),
		maxSize: maxSize,
	}
}

// Tokenize returns top-level blocks in document order.
func (l *GoldmarkLexer) Tokenize(src []byte) (tokens []Token, err error) {
	if len(src) > l.maxSize {
		return nil, fmt.Errorf("%w: document is %d bytes, limit %d", domain.ErrParseFailure, len(src), l.maxSize)
	}

	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("%w: %v", domain.ErrParseFailure, r)
		}
	}()

	doc := l.parser.Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			tokens = append(tokens, Token{
				Kind:  TokenHeading,
				Depth: node.Level,
				Text:  rawLines(node, src),
			})
		case *ast.Paragraph:
			tokens = append(tokens, Token{
				Kind: TokenParagraph,
				Text: rawLines(node, src),
			})
		case *ast.List:
			tokens = append(tokens, Token{
				Kind:    TokenList,
				Entries: listEntries(node, src),
			})
		default:
			tokens = append(tokens, Token{Kind: TokenOther})
		}
	}

	return tokens, nil
}

func listEntries(list *ast.List, src []byte) []ListEntry {
	var entries []ListEntry
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		var entry ListEntry
		var parts []string
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch child := c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				if s := rawLines(child, src); s != "" {
					parts = append(parts, s)
				}
			case *ast.List:
				entry.Children = append(entry.Children, listEntries(child, src)...)
			}
		}
		entry.Text = strings.Join(parts, "\n")
		entries = append(entries, entry)
	}
	return entries
}

// rawLines joins the source lines of a block node, trimmed.
func rawLines(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if line := strings.TrimSpace(string(seg.Value(src))); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}
