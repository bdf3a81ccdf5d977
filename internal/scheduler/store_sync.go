package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

// ListLoader reads every stored list. Lists that fail to decode come back
// as per-list errors next to the readable ones.
type ListLoader interface {
	GetAllLists(ctx context.Context) ([]*domain.AwesomeList, []error, error)
}

// StoreSyncer syncs lists from the store to the memory index on startup
type StoreSyncer struct {
	store  ListLoader
	index  *index.ListIndex
	logger logger.Logger
}

// NewStoreSyncer creates a new store syncer
func NewStoreSyncer(
	store ListLoader,
	idx *index.ListIndex,
	log logger.Logger,
) *StoreSyncer {
	return &StoreSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads lists from the store and replaces the memory index content
func (ss *StoreSyncer) Sync(ctx context.Context) error {
	ss.logger.Info("syncing lists from redis to memory")

	lists, bad, err := ss.store.GetAllLists(ctx)
	if err != nil {
		return err
	}

	for _, e := range bad {
		ss.logger.Warn("skipping unreadable stored list", logger.Error(e))
	}

	if len(lists) == 0 {
		ss.logger.Info("no lists found in redis")
		return nil
	}

	ss.index.ReplaceAll(lists)

	ss.logger.Info("synced lists from redis",
		logger.Int("count", len(lists)),
		logger.Int("items", ss.index.ItemCount()))

	return nil
}
