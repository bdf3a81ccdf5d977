package index

import (
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/versions"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleList(id string, items ...domain.ListItem) *domain.AwesomeList {
	return &domain.AwesomeList{ID: id, Name: "List " + id, Items: items, Categories: []string{"Tools"}}
}

func TestNewListIndex(t *testing.T) {
	index := NewListIndex()
	if index == nil {
		t.Fatal("NewListIndex() returned nil")
	}
	if lists := index.GetAllLists(); len(lists) != 0 {
		t.Errorf("NewListIndex() should start empty, got %v lists", len(lists))
	}
	if !index.LastReload().IsZero() {
		t.Error("LastReload() should be zero before any update")
	}
}

func TestUpdateListCopies(t *testing.T) {
	index := NewListIndex()
	list := sampleList("o/r", domain.ListItem{ID: "a", Title: "A"})

	index.UpdateList(list)
	list.Items[0].Title = "changed"

	got, ok := index.GetList("o/r")
	if !ok {
		t.Fatal("GetList() did not find the list")
	}
	if got.Items[0].Title != "A" {
		t.Errorf("index shares item storage with the caller")
	}
	if index.LastReload().IsZero() {
		t.Error("LastReload() not set by UpdateList()")
	}
}

func TestReplaceAllAndDelete(t *testing.T) {
	index := NewListIndex()
	index.UpdateList(sampleList("old/one"))

	index.ReplaceAll([]*domain.AwesomeList{sampleList("b/two"), sampleList("a/one")})

	lists := index.GetAllLists()
	if len(lists) != 2 || lists[0].ID != "a/one" || lists[1].ID != "b/two" {
		t.Fatalf("GetAllLists() = %v, want [a/one b/two]", lists)
	}

	index.DeleteList("a/one")
	if index.Count() != 1 {
		t.Errorf("Count() = %v, want 1", index.Count())
	}
	if _, ok := index.GetList("a/one"); ok {
		t.Error("GetList() found a deleted list")
	}
}

func TestSummaries(t *testing.T) {
	index := NewListIndex()
	index.UpdateList(sampleList("o/r",
		domain.ListItem{ID: "a", IsNew: true},
		domain.ListItem{ID: "b"},
	))

	sums := index.Summaries()
	if len(sums) != 1 {
		t.Fatalf("Summaries() = %d entries, want 1", len(sums))
	}
	s := sums[0]
	if s.ItemCount != 2 || s.NewItemCount != 1 || s.CategoryCount != 1 {
		t.Errorf("Summary = %+v", s)
	}
	if index.ItemCount() != 2 {
		t.Errorf("ItemCount() = %d, want 2", index.ItemCount())
	}
}

func TestNewItems(t *testing.T) {
	index := NewListIndex()
	index.UpdateList(sampleList("o/r",
		domain.ListItem{ID: "base", FirstSeen: t0},
		domain.ListItem{ID: "day1", FirstSeen: t0.Add(24 * time.Hour), IsNew: true},
		domain.ListItem{ID: "day3", FirstSeen: t0.Add(3 * 24 * time.Hour), IsNew: true},
		domain.ListItem{ID: "day2-expired", FirstSeen: t0.Add(2 * 24 * time.Hour)},
	))
	index.UpdateList(sampleList("x/y",
		domain.ListItem{ID: "other", FirstSeen: t0.Add(2 * 24 * time.Hour), IsNew: true},
	))

	now := t0.Add(4 * 24 * time.Hour)

	got := index.NewItems(7*24*time.Hour, now)
	want := []string{"day3", "day2-expired", "other", "day1"}
	if len(got) != len(want) {
		t.Fatalf("NewItems() = %d items, want %d: %+v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("NewItems()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[0].ListID != "o/r" || got[0].ListName != "List o/r" {
		t.Errorf("NewItems()[0] not annotated: %+v", got[0])
	}

	narrow := index.NewItems(24*time.Hour, now)
	for _, it := range narrow {
		if it.ID == "day2-expired" {
			t.Error("NewItems() returned an item outside the window that is not flagged new")
		}
	}
}

func TestNewItemsAfterRescrape(t *testing.T) {
	window := 7 * 24 * time.Hour
	scrape := func(ids ...string) *domain.AwesomeList {
		l := sampleList("o/r")
		for _, id := range ids {
			l.Items = append(l.Items, domain.ListItem{ID: id, Title: id, IsNew: true})
		}
		return l
	}

	base := versions.Compare(nil, scrape("a", "b"), window, t0)
	rerun := versions.Compare(base, scrape("a", "b"), window, t0.Add(time.Hour))
	t1 := t0.Add(24 * time.Hour)
	current := versions.Compare(rerun, scrape("a", "b", "c"), window, t1)

	index := NewListIndex()
	index.UpdateList(current)

	got := index.NewItems(window, t1)
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("NewItems() = %+v, want only c", got)
	}
	if sums := index.Summaries(); sums[0].NewItemCount != 1 {
		t.Errorf("NewItemCount = %d, want 1", sums[0].NewItemCount)
	}
}

func TestSearch(t *testing.T) {
	index := NewListIndex()
	index.UpdateList(sampleList("o/r",
		domain.ListItem{ID: "1", Title: "Nextcloud"},
		domain.ListItem{ID: "2", Title: "Jellyfin"},
	))

	got := index.Search("jellyfin", 10)
	if len(got) != 1 || got[0].Item.ID != "2" || got[0].ListID != "o/r" {
		t.Errorf("Search() = %+v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewListIndex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			index.UpdateList(sampleList("o/r", domain.ListItem{ID: "a", Title: "A"}))
		}()
		go func() {
			defer wg.Done()
			_ = index.GetAllLists()
			_ = index.Search("a", 5)
			_ = index.NewItems(time.Hour, time.Now())
		}()
	}
	wg.Wait()

	if index.Count() != 1 {
		t.Errorf("Count() = %d, want 1", index.Count())
	}
}
