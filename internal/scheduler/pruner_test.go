package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

func TestListPruner_Prune(t *testing.T) {
	log := logger.New("error", false)
	idx := index.NewListIndex()
	idx.UpdateList(&domain.AwesomeList{ID: "acme/kept", Owner: "acme", Repo: "kept"})
	idx.UpdateList(&domain.AwesomeList{ID: "acme/dropped", Owner: "acme", Repo: "dropped"})

	// Create pruner without a store
	pruner := NewListPruner(
		nil,
		idx,
		log,
		[]domain.TrackedRepository{{Owner: "acme", Repo: "kept"}},
		time.Hour,
	)

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted list, got %d", deleted)
	}
	if _, ok := idx.GetList("acme/kept"); !ok {
		t.Error("Tracked list was incorrectly removed")
	}
	if _, ok := idx.GetList("acme/dropped"); ok {
		t.Error("Untracked list was not removed")
	}
}

func TestListPruner_PruneStoreOnly(t *testing.T) {
	store := newMemStore()
	store.lists["acme/kept"] = &domain.AwesomeList{ID: "acme/kept"}
	store.lists["acme/stale"] = &domain.AwesomeList{ID: "acme/stale"}
	store.digests["acme/stale"] = "abc"

	pruner := NewListPruner(
		store,
		index.NewListIndex(),
		logger.New("error", false),
		[]domain.TrackedRepository{{Owner: "acme", Repo: "kept"}},
		0,
	)

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted list, got %d", deleted)
	}
	if _, ok := store.lists["acme/stale"]; ok {
		t.Error("Stale list still stored")
	}
	if _, ok := store.digests["acme/stale"]; ok {
		t.Error("Stale digest still stored")
	}
	if pruner.interval != DefaultPruneInterval {
		t.Errorf("interval = %v, want default", pruner.interval)
	}
}
