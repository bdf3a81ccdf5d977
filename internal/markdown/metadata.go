package markdown

import (
	"regexp"
	"strings"
)

var (
	demoPattern       = regexp.MustCompile(`\[Demo\]\(([^)]+)\)`)
	sourceCodePattern = regexp.MustCompile(`\[Source Code\]\(([^)]+)\)`)
	backtickPattern   = regexp.MustCompile("`([^`]+)`")
	techStackPattern  = regexp.MustCompile("`[^`]+`\\s+`([^`]+)`")

	emptyParensPattern = regexp.MustCompile(`\(\s*,?\s*\)`)
	looseCommaPattern  = regexp.MustCompile(`\s+,\s+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	leadingDashPattern = regexp.MustCompile(`^[-–—]`)
)

// Metadata is what ExtractMetadata pulls out of an item description.
type Metadata struct {
	Description   string
	DemoURL       string
	SourceCodeURL string
	License       string
	TechStack     string
}

// ExtractMetadata pulls demo/source links and the license and tech-stack
// backtick spans out of desc. Every rule matches against desc itself and
// removes its match from the working copy, in a fixed order.
//
// Only one demo link, one source link and two adjacent backtick spans are
// recognized; richer annotations are left in the description.
func ExtractMetadata(desc string) Metadata {
	var meta Metadata
	work := desc

	if m := demoPattern.FindStringSubmatch(desc); m != nil {
		meta.DemoURL = m[1]
		work = strings.Replace(work, m[0], "", 1)
	}

	if m := sourceCodePattern.FindStringSubmatch(desc); m != nil {
		meta.SourceCodeURL = m[1]
		work = strings.Replace(work, m[0], "", 1)
	}

	if m := backtickPattern.FindStringSubmatch(desc); m != nil {
		meta.License = m[1]
		work = strings.Replace(work, m[0], "", 1)
	}

	if m := techStackPattern.FindStringSubmatch(desc); m != nil {
		meta.TechStack = m[1]
		work = removeFirst(backtickPattern, work)
	}

	work = emptyParensPattern.ReplaceAllString(work, "")
	work = looseCommaPattern.ReplaceAllString(work, " ")
	work = whitespacePattern.ReplaceAllString(work, " ")
	meta.Description = strings.TrimSpace(work)

	return meta
}

// cleanDescription trims s, drops one leading dash and one trailing period,
// and collapses whitespace.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	s = leadingDashPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func removeFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
