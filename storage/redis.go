package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisSeenStore хранит множество идентификаторов в Redis-множестве.
type RedisSeenStore struct {
	client *redis.Client
	key    string
	log    *slog.Logger
}

func NewRedisSeenStore(client *redis.Client, key string, log *slog.Logger) *RedisSeenStore {
	log.Info("Initializing Redis seen-state storage", slog.String("key", key))
	return &RedisSeenStore{
		client: client,
		key:    key,
		log:    log,
	}
}

func (s *RedisSeenStore) Close() {
	if err := s.client.Close(); err != nil {
		s.log.Error("Failed to close Redis client", slog.Any("error", err))
	}
}

func (s *RedisSeenStore) Load(ctx context.Context) (map[string]struct{}, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		s.log.Error("Redis SMEMBERS failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load seen state from redis: %w", err)
	}
	seen := make(map[string]struct{}, len(members))
	for _, id := range members {
		seen[id] = struct{}{}
	}
	s.log.Info("Seen state loaded", slog.Int("count", len(seen)))
	return seen, nil
}

func (s *RedisSeenStore) Save(ctx context.Context, ids map[string]struct{}) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(ids))
	for id := range ids {
		members = append(members, id)
	}
	if err := s.client.SAdd(ctx, s.key, members...).Err(); err != nil {
		s.log.Error("Redis SADD failed", slog.Any("error", err))
		return fmt.Errorf("failed to save seen state to redis: %w", err)
	}
	s.log.Info("Seen state saved", slog.Int("count", len(ids)))
	return nil
}
