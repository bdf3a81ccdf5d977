package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetLastChecked records when a list was last compared against upstream
func (s *Store) SetLastChecked(ctx context.Context, id string, at time.Time) error {
	if err := s.client.HSet(ctx, KeyLastChecked, id, at.UTC().Format(time.RFC3339Nano)).Err(); err != nil {
		return fmt.Errorf("failed to set last check of %s: %w", id, err)
	}
	return nil
}

// GetLastChecked returns when a list was last checked, or the zero time
// if it never was
func (s *Store) GetLastChecked(ctx context.Context, id string) (time.Time, error) {
	raw, err := s.client.HGet(ctx, KeyLastChecked, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get last check of %s: %w", id, err)
	}

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// Unreadable bookkeeping only forces a fresh check
		return time.Time{}, nil
	}
	return at, nil
}

// SetReadmeDigest stores the digest of the last parsed README
func (s *Store) SetReadmeDigest(ctx context.Context, id, digest string) error {
	if err := s.client.Set(ctx, DigestKey(id), digest, 0).Err(); err != nil {
		return fmt.Errorf("failed to set readme digest of %s: %w", id, err)
	}
	return nil
}

// GetReadmeDigest returns the digest of the last parsed README, "" on miss
func (s *Store) GetReadmeDigest(ctx context.Context, id string) (string, error) {
	digest, err := s.client.Get(ctx, DigestKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get readme digest of %s: %w", id, err)
	}
	return digest, nil
}

// FlushDigests removes every README digest, forcing a full re-parse on the
// next scrape
func (s *Store) FlushDigests(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixDigest+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete digest key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush digests: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("redis client not initialized")
	}
	return s.client.Ping(ctx).Err()
}
