package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"freepress/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists outlets as JSON strings plus a sorted set that keeps
// insertion order. It implements outlets.Persister.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) outletKey(id string) string {
	return fmt.Sprintf("%soutlet:%s", s.prefix, id)
}

func (s *RedisStore) orderKey() string {
	return s.prefix + "outlets:order"
}

func (s *RedisStore) seqKey() string {
	return s.prefix + "outlets:seq"
}

// LoadOutlets returns every stored outlet in insertion order. Records that
// fail to decode are logged and skipped.
func (s *RedisStore) LoadOutlets(ctx context.Context) ([]model.Outlet, error) {
	ids, err := s.rdb.ZRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.outletKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Outlet, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			slog.Warn("storage: outlet listed but missing", "id", ids[i])
			continue
		}
		var o model.Outlet
		if err := json.Unmarshal([]byte(str), &o); err != nil {
			slog.Warn("storage: skipping undecodable outlet", "id", ids[i], "err", err)
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// SaveOutlets writes the records. New ids are appended to the order set;
// existing ids keep their position.
func (s *RedisStore) SaveOutlets(ctx context.Context, outlets []model.Outlet) error {
	if len(outlets) == 0 {
		return nil
	}
	// reserve a block of sequence numbers for any new members
	last, err := s.rdb.IncrBy(ctx, s.seqKey(), int64(len(outlets))).Result()
	if err != nil {
		return err
	}
	first := last - int64(len(outlets)) + 1

	pipe := s.rdb.TxPipeline()
	for i, o := range outlets {
		b, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("encode outlet %s: %w", o.ID, err)
		}
		pipe.Set(ctx, s.outletKey(o.ID), b, 0)
		pipe.ZAddNX(ctx, s.orderKey(), redis.Z{Score: float64(first + int64(i)), Member: o.ID})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) DeleteOutlets(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	members := make([]any, len(ids))
	for i, id := range ids {
		keys[i] = s.outletKey(id)
		members[i] = id
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, s.orderKey(), members...)
	_, err := pipe.Exec(ctx)
	return err
}

// Count returns the number of outlets in the order set.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	return s.rdb.ZCard(ctx, s.orderKey()).Result()
}
