package markdown

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

// linkPattern matches the first inline link: [text](url).
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// link is the first Markdown link found in a line.
type link struct {
	Title string
	URL   string
	Raw   string
}

func findLink(s string) (link, bool) {
	m := linkPattern.FindStringSubmatch(s)
	if m == nil {
		return link{}, false
	}
	return link{Title: m[1], URL: m[2], Raw: m[0]}, true
}

func hasLink(s string) bool {
	return linkPattern.MatchString(s)
}

// stripLinks replaces every link with its display text.
func stripLinks(s string) string {
	return linkPattern.ReplaceAllString(s, "$1")
}

// nonCategorySections are headings and TOC entries that never name a category.
var nonCategorySections = map[string]struct{}{
	"Table of Contents": {},
	"Contents":          {},
	"License":           {},
	"Licenses":          {},
	"Contributing":      {},
	"Contribute":        {},
	"About":             {},
	"Anti-features":     {},
	"External Links":    {},
	"Resources":         {},
	"List of Licenses":  {},
	"Software":          {},
	"Hardware":          {},
}

// IsNonCategory reports whether name is a meta section (denylisted or
// "Awesome"-prefixed) rather than a resource category.
func IsNonCategory(name string) bool {
	if _, ok := nonCategorySections[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "Awesome")
}

// nonContentTitles are link titles that point at meta sections, not resources.
var nonContentTitles = map[string]struct{}{
	"License":          {},
	"Contributing":     {},
	"External Links":   {},
	"Anti-features":    {},
	"List of Licenses": {},
	"Software":         {},
}

// IsNonContentLink reports whether a list link should not become an item:
// meta titles and in-document anchors.
func IsNonContentLink(title, url string) bool {
	if _, ok := nonContentTitles[title]; ok {
		return true
	}
	return strings.HasPrefix(url, "#")
}

// GenerateItemID returns the md5 hex digest of title + "|" + url.
// The format is shared with previously stored lists and must not change.
func GenerateItemID(title, url string) string {
	sum := md5.Sum([]byte(title + "|" + url))
	return hex.EncodeToString(sum[:])
}
