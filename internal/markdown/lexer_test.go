package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

func TestGoldmarkLexerTokenize(t *testing.T) {
	src := `# Awesome Things

Some intro paragraph.

## Tools

- [Hammer](https://hammer.example) - Hits nails.
- [Saw](https://saw.example)
  - [Hacksaw](https://hacksaw.example) - For metal.

### Power tools

` + "```\ncode\n```\n"

	tokens, err := NewGoldmarkLexer(0).Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	want := []struct {
		kind  TokenKind
		depth int
		text  string
	}{
		{TokenHeading, 1, "Awesome Things"},
		{TokenParagraph, 0, "Some intro paragraph."},
		{TokenHeading, 2, "Tools"},
		{TokenList, 0, ""},
		{TokenHeading, 3, "Power tools"},
		{TokenOther, 0, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Kind != w.kind || got.Depth != w.depth || got.Text != w.text {
			t.Errorf("token[%d] = {%v %d %q}, want {%v %d %q}", i, got.Kind, got.Depth, got.Text, w.kind, w.depth, w.text)
		}
	}

	list := tokens[3]
	if len(list.Entries) != 2 {
		t.Fatalf("list has %d entries, want 2", len(list.Entries))
	}
	if list.Entries[0].Text != "[Hammer](https://hammer.example) - Hits nails." {
		t.Errorf("entry[0].Text = %q", list.Entries[0].Text)
	}
	if list.Entries[1].Text != "[Saw](https://saw.example)" {
		t.Errorf("entry[1].Text = %q", list.Entries[1].Text)
	}
	if len(list.Entries[1].Children) != 1 || !strings.HasPrefix(list.Entries[1].Children[0].Text, "[Hacksaw]") {
		t.Errorf("entry[1].Children = %+v, want one Hacksaw entry", list.Entries[1].Children)
	}
}

func TestGoldmarkLexerRejectsOversizedDocument(t *testing.T) {
	_, err := NewGoldmarkLexer(8).Tokenize([]byte("# a very long title"))
	if !errors.Is(err, domain.ErrParseFailure) {
		t.Errorf("Tokenize() error = %v, want ErrParseFailure", err)
	}
}

func TestGoldmarkLexerEmptyDocument(t *testing.T) {
	tokens, err := NewGoldmarkLexer(0).Tokenize(nil)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("Tokenize() returned %d tokens for empty input", len(tokens))
	}
}
