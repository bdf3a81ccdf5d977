package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

const (
	// DefaultPruneInterval is how often untracked lists are looked for
	DefaultPruneInterval = 24 * time.Hour
)

// ListRemover lists and deletes stored lists.
type ListRemover interface {
	ListIDs(ctx context.Context) ([]string, error)
	DeleteList(ctx context.Context, id string) error
}

// ListPruner removes lists whose repository is no longer tracked
type ListPruner struct {
	store    ListRemover
	index    *index.ListIndex
	logger   logger.Logger
	tracked  map[string]bool
	interval time.Duration
	stopCh   chan struct{}
}

// NewListPruner creates a new list pruner
func NewListPruner(
	store ListRemover,
	idx *index.ListIndex,
	log logger.Logger,
	repos []domain.TrackedRepository,
	interval time.Duration,
) *ListPruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}

	tracked := make(map[string]bool, len(repos))
	for _, r := range repos {
		tracked[r.ID()] = true
	}

	return &ListPruner{
		store:    store,
		index:    idx,
		logger:   log,
		tracked:  tracked,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic pruning process
func (lp *ListPruner) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := lp.Prune(ctx); err != nil {
		lp.logger.Warn("initial prune failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(lp.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := lp.Prune(ctx); err != nil {
					lp.logger.Error("prune failed",
						logger.Error(err))
				}
			case <-lp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the pruner
func (lp *ListPruner) Stop() {
	close(lp.stopCh)
}

// Prune deletes untracked lists from the index and the store and returns
// how many were removed.
func (lp *ListPruner) Prune(ctx context.Context) (int, error) {
	lp.logger.Debug("pruning untracked lists")

	ids := make(map[string]bool)
	for _, l := range lp.index.GetAllLists() {
		ids[l.ID] = true
	}

	if lp.store != nil {
		stored, err := lp.store.ListIDs(ctx)
		if err != nil {
			return 0, err
		}
		for _, id := range stored {
			ids[id] = true
		}
	}

	deleted := 0
	for id := range ids {
		if lp.tracked[id] {
			continue
		}

		// Delete from memory index
		lp.index.DeleteList(id)

		// Delete from Redis store (best effort)
		if lp.store != nil {
			if err := lp.store.DeleteList(ctx, id); err != nil {
				lp.logger.Warn("failed to delete list from redis",
					logger.ListID(id),
					logger.Error(err))
				continue
			}
		}

		lp.logger.Info("pruned untracked list",
			logger.ListID(id))
		deleted++
	}

	if deleted > 0 {
		lp.logger.Info("prune completed",
			logger.Int("deleted", deleted))
	} else {
		lp.logger.Debug("no lists to prune")
	}

	return deleted, nil
}
