package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	badgeOnlyPattern = regexp.MustCompile(`^\s*\[!\[.*?\]\(.*?\)\]\(.*?\)\s*$`)
	nonNamePattern   = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
)

const (
	titleScanLimit        = 5
	descriptionScanWindow = 10
	descriptionMinLength  = 100
	fallbackScanLimit     = 15
	fallbackMinLength     = 80
)

// listName derives a display name from the document title, e.g.
// "Awesome Self-Hosted" -> "Self Hosted". It falls back to repo.
func listName(tokens []Token, repo string) string {
	for i := 0; i < len(tokens) && i < titleScanLimit; i++ {
		tok := tokens[i]
		if tok.Kind != TokenHeading || tok.Depth != 1 {
			continue
		}
		if !strings.Contains(tok.Text, "Awesome") {
			return repo
		}
		name := nonNamePattern.ReplaceAllString(tok.Text, " ")
		name = strings.Join(strings.Fields(name), " ")
		if strings.HasPrefix(strings.ToLower(name), "awesome") {
			name = strings.TrimSpace(name[len("awesome"):])
		}
		if name == "" {
			return repo
		}
		return name
	}
	return repo
}

// listDescription finds the introductory paragraph under the title,
// skipping badge rows and short taglines.
func listDescription(tokens []Token) string {
	for i, tok := range tokens {
		if tok.Kind != TokenHeading || tok.Depth != 1 {
			continue
		}
		for j := i + 1; j < len(tokens) && j < i+descriptionScanWindow; j++ {
			next := tokens[j]
			if next.IsHeading(2) {
				break
			}
			if next.Kind != TokenParagraph {
				continue
			}
			if utf8.RuneCountInString(next.Text) > descriptionMinLength && !badgeOnlyPattern.MatchString(next.Text) {
				return stripLinks(next.Text)
			}
		}
	}

	for i := 0; i < len(tokens) && i < fallbackScanLimit; i++ {
		tok := tokens[i]
		if tok.Kind == TokenParagraph && utf8.RuneCountInString(tok.Text) > fallbackMinLength {
			return stripLinks(tok.Text)
		}
	}

	return ""
}
