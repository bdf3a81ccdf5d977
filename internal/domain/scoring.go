package domain

import (
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Exact title match bonus (huge boost)
	ScoreExactTitleBonus = 200.0

	// Secondary fields only nudge the ranking
	ScoreCategoryWeight    = 0.3
	ScoreDescriptionWeight = 0.2
)

// ItemCandidate is a list item with its match score and the list it came from.
type ItemCandidate struct {
	ListID   string    `json:"listId"`
	ListName string    `json:"listName"`
	Item     *ListItem `json:"item"`
	Score    float64   `json:"score"`
}

// ScoreItem calculates the match score for an item against a query string.
// The title carries the weight; category and description matches only add.
func ScoreItem(queryStr string, item *ListItem) float64 {
	if item == nil {
		return 0.0
	}
	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	if queryStr == "" {
		return 0.0
	}

	score := scoreText(queryStr, strings.ToLower(item.Title))
	if score == 0.0 {
		// Secondary fields alone never outrank a title hit
		category := strings.ToLower(item.Category + " " + item.Subcategory)
		if strings.Contains(category, queryStr) {
			score += ScoreSubstringMatch * ScoreCategoryWeight
		}
		if strings.Contains(strings.ToLower(item.Description), queryStr) {
			score += ScoreSubstringMatch * ScoreDescriptionWeight
		}
		return score
	}

	if strings.Contains(strings.ToLower(item.Description), queryStr) {
		score += ScorePositionBonus * ScoreDescriptionWeight
	}
	return score
}

// scoreText scores a query against a single lowercased field.
func scoreText(queryStr, text string) float64 {
	if text == "" {
		return 0.0
	}

	// Exact match (highest score)
	if queryStr == text {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	// Prefix match
	if strings.HasPrefix(text, queryStr) {
		return ScorePrefixMatch
	}

	// Substring match
	if index := strings.Index(text, queryStr); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(text)))
		return ScoreSubstringMatch + substringBonus
	}

	// Word match: every query word appears in the text
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(text, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	// Character similarity
	similarity := calculateSimilarity(queryStr, text)
	if similarity > 0.5 && len(queryStr) > 2 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity calculates fuzzy similarity between two strings
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	// Simple similarity: ratio of matching characters
	matches := 0
	total := 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

// RankItems scores every item of every list and returns the matches,
// best first. A limit <= 0 returns all of them.
func RankItems(queryStr string, lists []*AwesomeList, limit int) []*ItemCandidate {
	candidates := make([]*ItemCandidate, 0)

	for _, list := range lists {
		if list == nil {
			continue
		}
		for i := range list.Items {
			item := &list.Items[i]
			score := ScoreItem(queryStr, item)

			// Skip items with zero score (no match)
			if score == 0.0 {
				continue
			}

			candidates = append(candidates, &ItemCandidate{
				ListID:   list.ID,
				ListName: list.Name,
				Item:     item,
				Score:    score,
			})
		}
	}

	sortItemCandidates(candidates)

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// sortItemCandidates sorts candidates by score (descending), stable on ties.
func sortItemCandidates(candidates []*ItemCandidate) {
	// Insertion sort keeps equal scores in document order
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j-1].Score < candidates[j].Score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}
