package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
)

// Store handles Redis persistence of parsed lists and scrape bookkeeping
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SaveList stores a list in Redis. Lists do not expire: the stored version
// is the baseline of the next compare.
func (s *Store) SaveList(ctx context.Context, list *domain.AwesomeList) error {
	data, err := encodeList(list)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, ListKey(list.ID), data, 0)
	pipe.SAdd(ctx, AllListsKey(), list.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save list %s: %w", list.ID, err)
	}

	return nil
}

// GetList retrieves a list from Redis by ID. A missing list yields
// domain.ErrListNotFound, an undecodable one domain.ErrCorruptPreviousState.
func (s *Store) GetList(ctx context.Context, id string) (*domain.AwesomeList, error) {
	data, err := s.client.Get(ctx, ListKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrListNotFound, id)
		}
		return nil, fmt.Errorf("failed to get list %s: %w", id, err)
	}

	return decodeList(id, data)
}

func encodeList(list *domain.AwesomeList) ([]byte, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list %s: %w", list.ID, err)
	}
	return data, nil
}

func decodeList(id string, data []byte) (*domain.AwesomeList, error) {
	var list domain.AwesomeList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", domain.ErrCorruptPreviousState, id, err)
	}
	if list.ID == "" {
		list.ID = id
	}
	return &list, nil
}

// ListIDs returns the IDs of every stored list, including records that
// lost their membership in the ID set.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, AllListsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get list IDs: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}

	iter := s.client.Scan(ctx, 0, KeyPrefixList+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := ExtractListID(iter.Val())
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan list keys: %w", err)
	}

	return ids, nil
}

// GetAllLists retrieves every stored list. Lists that cannot be read are
// skipped and reported in the returned error slice.
func (s *Store) GetAllLists(ctx context.Context) ([]*domain.AwesomeList, []error, error) {
	ids, err := s.ListIDs(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(ids) == 0 {
		return []*domain.AwesomeList{}, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ListKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get lists: %w", err)
	}

	lists := make([]*domain.AwesomeList, 0, len(ids))
	var skipped []error
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Set member without a record
			skipped = append(skipped, fmt.Errorf("%w: %s", domain.ErrListNotFound, ids[i]))
			continue
		}
		list, err := decodeList(ids[i], []byte(raw))
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		lists = append(lists, list)
	}

	return lists, skipped, nil
}

// DeleteList removes a list and all of its bookkeeping from Redis
func (s *Store) DeleteList(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, ListKey(id), DigestKey(id))
	pipe.SRem(ctx, AllListsKey(), id)
	pipe.HDel(ctx, KeyLastChecked, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete list %s: %w", id, err)
	}
	return nil
}
