// Package versions reconciles a freshly parsed list with the previously
// stored version of the same list.
package versions

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

// DefaultNewItemWindow is how long an item stays flagged new after it
// first appears.
const DefaultNewItemWindow = 7 * 24 * time.Hour

// CompareVersions is Compare stamped with the current time.
func CompareVersions(prev, cur *domain.AwesomeList, window time.Duration) *domain.AwesomeList {
	return Compare(prev, cur, window, time.Now())
}

// Compare returns a copy of cur whose items carry firstSeen over from prev,
// matched by id. With no previous version every item is a baseline item
// (not new). A matched item stays new only while prev flagged it new and
// the window has not elapsed, so the flag never comes back once cleared.
// Items present only in prev are dropped. Neither input is modified.
func Compare(prev, cur *domain.AwesomeList, window time.Duration, now time.Time) *domain.AwesomeList {
	if cur == nil {
		return nil
	}
	if window <= 0 {
		window = DefaultNewItemWindow
	}
	now = now.UTC()

	out := cur.Clone()
	out.LastUpdated = now

	if prev == nil {
		for i := range out.Items {
			out.Items[i].FirstSeen = now
			out.Items[i].IsNew = false
		}
		return out
	}

	seen := make(map[string]domain.ListItem, len(prev.Items))
	for _, it := range prev.Items {
		seen[it.ID] = it
	}

	for i := range out.Items {
		it := &out.Items[i]
		old, ok := seen[it.ID]
		if !ok {
			it.FirstSeen = now
			it.IsNew = true
			continue
		}
		it.FirstSeen = old.FirstSeen
		it.IsNew = old.IsNew && now.Sub(old.FirstSeen) < window
	}

	return out
}

// Validate reports whether prev can serve as the previous version of cur.
// A nil prev is valid (first scrape).
func Validate(prev, cur *domain.AwesomeList) error {
	if prev == nil {
		return nil
	}
	if cur != nil && prev.ID != cur.ID {
		return fmt.Errorf("%w: stored id %q, want %q", domain.ErrCorruptPreviousState, prev.ID, cur.ID)
	}
	for i, it := range prev.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", domain.ErrCorruptPreviousState, i)
		}
		if it.FirstSeen.IsZero() {
			return fmt.Errorf("%w: item %s has no firstSeen", domain.ErrCorruptPreviousState, it.ID)
		}
	}
	return nil
}

// Reconcile validates prev and compares. A corrupt prev is logged and the
// list is re-baselined as if it had never been seen.
func Reconcile(log logger.Logger, prev, cur *domain.AwesomeList, window time.Duration, now time.Time) *domain.AwesomeList {
	if cur == nil {
		return nil
	}
	if err := Validate(prev, cur); err != nil {
		log.Warn("Discarding previous list version",
			logger.ListID(cur.ID),
			logger.Error(err),
		)
		prev = nil
	}
	return Compare(prev, cur, window, now)
}
