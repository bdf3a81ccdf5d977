package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// ListIndex provides in-memory storage and lookup for parsed lists.
// It serves every read endpoint; Redis is only read at startup.
type ListIndex struct {
	mu         sync.RWMutex
	lists      map[string]*domain.AwesomeList // ID -> List
	lastReload time.Time                      // Timestamp of last list update
}

// NewItem is a list item annotated with the list it belongs to.
type NewItem struct {
	domain.ListItem
	ListID   string `json:"listId"`
	ListName string `json:"listName"`
}

// Summary is the list overview served without items.
type Summary struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Repo          string    `json:"repo"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ItemCount     int       `json:"itemCount"`
	NewItemCount  int       `json:"newItemCount"`
	CategoryCount int       `json:"categoryCount"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// NewListIndex creates a new list index
func NewListIndex() *ListIndex {
	return &ListIndex{
		lists: make(map[string]*domain.AwesomeList),
	}
}

// ReplaceAll replaces all lists in the index
func (idx *ListIndex) ReplaceAll(lists []*domain.AwesomeList) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.lists = make(map[string]*domain.AwesomeList, len(lists))
	for _, list := range lists {
		idx.lists[list.ID] = list
	}
	idx.lastReload = time.Now()
}

// UpdateList adds or replaces a single list. The index keeps its own copy.
func (idx *ListIndex) UpdateList(list *domain.AwesomeList) {
	if list == nil {
		return
	}
	cp := list.Clone()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.lists[cp.ID] = cp
	idx.lastReload = time.Now()
}

// GetList retrieves a list by ID. Callers must not modify the result.
func (idx *ListIndex) GetList(id string) (*domain.AwesomeList, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	list, ok := idx.lists[id]
	return list, ok
}

// GetAllLists returns all lists ordered by ID
func (idx *ListIndex) GetAllLists() []*domain.AwesomeList {
	idx.mu.RLock()
	lists := make([]*domain.AwesomeList, 0, len(idx.lists))
	for _, list := range idx.lists {
		lists = append(lists, list)
	}
	idx.mu.RUnlock()

	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists
}

// Summaries returns an overview of every list, ordered by ID
func (idx *ListIndex) Summaries() []Summary {
	lists := idx.GetAllLists()
	out := make([]Summary, 0, len(lists))
	for _, l := range lists {
		out = append(out, Summary{
			ID:            l.ID,
			Owner:         l.Owner,
			Repo:          l.Repo,
			Name:          l.Name,
			Description:   l.Description,
			ItemCount:     len(l.Items),
			NewItemCount:  l.CountNew(),
			CategoryCount: len(l.Categories),
			LastUpdated:   l.LastUpdated,
		})
	}
	return out
}

// DeleteList removes a list from the index
func (idx *ListIndex) DeleteList(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.lists, id)
}

// Count returns the number of lists in the index
func (idx *ListIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.lists)
}

// ItemCount returns the number of items across all lists
func (idx *ListIndex) ItemCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := 0
	for _, l := range idx.lists {
		n += len(l.Items)
	}
	return n
}

// LastReload returns the timestamp of the last index update
func (idx *ListIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// NewItems returns the items of every list that are flagged new, or that
// were first seen within window of now after their list's baseline import.
// Newest first.
func (idx *ListIndex) NewItems(window time.Duration, now time.Time) []NewItem {
	lists := idx.GetAllLists()

	out := make([]NewItem, 0)
	for _, l := range lists {
		baseline := baselineOf(l)
		for _, it := range l.Items {
			recent := now.Sub(it.FirstSeen) < window && it.FirstSeen.After(baseline)
			if !it.IsNew && !recent {
				continue
			}
			out = append(out, NewItem{ListItem: it, ListID: l.ID, ListName: l.Name})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FirstSeen.After(out[j].FirstSeen)
	})
	return out
}

// baselineOf returns the firstSeen shared by the items of the first import,
// which is the earliest one in the list.
func baselineOf(l *domain.AwesomeList) time.Time {
	var earliest time.Time
	for _, it := range l.Items {
		if earliest.IsZero() || it.FirstSeen.Before(earliest) {
			earliest = it.FirstSeen
		}
	}
	return earliest
}

// Search ranks the items of every list against query
func (idx *ListIndex) Search(query string, limit int) []*domain.ItemCandidate {
	return domain.RankItems(query, idx.GetAllLists(), limit)
}
