package markdown

import "github.com/MrSnakeDoc/awesomehub/internal/domain"

// DefaultUmbrellaThreshold is the number of real top-level categories below
// which an umbrella "Software" section is split into its subsections.
// It is a heuristic; lists with unusual layouts may need another value.
const DefaultUmbrellaThreshold = 5

// tocCategory is excluded from the real-category count.
const tocCategory = "Table of contents"

// CollapseUmbrella promotes the subcategories of the "Software" umbrella to
// top-level categories when the list has fewer than threshold other
// categories. Items outside the umbrella are untouched. The inputs are not
// modified.
func CollapseUmbrella(items []domain.ListItem, categories []string, subcategories map[string][]string, threshold int) ([]domain.ListItem, []string, map[string][]string) {
	if threshold <= 0 {
		threshold = DefaultUmbrellaThreshold
	}

	promoted := newOrderedSet()
	for _, it := range items {
		if it.Category == umbrellaHeading && it.Subcategory != "" {
			promoted.Add(it.Subcategory)
		}
	}
	if promoted.Len() == 0 {
		return items, categories, subcategories
	}

	real := 0
	for _, c := range categories {
		if c != tocCategory && c != umbrellaHeading {
			real++
		}
	}
	if real >= threshold {
		return items, categories, subcategories
	}

	outItems := make([]domain.ListItem, len(items))
	umbrellaLeft := false
	for i, it := range items {
		if it.Category == umbrellaHeading {
			if it.Subcategory != "" {
				it.Category = it.Subcategory
				it.Subcategory = ""
			} else {
				umbrellaLeft = true
			}
		}
		outItems[i] = it
	}

	cats := newOrderedSet()
	subs := make(map[string][]string)
	for _, c := range categories {
		if c != umbrellaHeading {
			if cats.Add(c) {
				subs[c] = append([]string{}, subcategories[c]...)
			}
			continue
		}
		if umbrellaLeft && cats.Add(c) {
			subs[c] = []string{}
		}
		for _, p := range promoted.Values() {
			if cats.Add(p) {
				subs[p] = []string{}
			}
		}
	}

	return outItems, cats.Values(), subs
}
