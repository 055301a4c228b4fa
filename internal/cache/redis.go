package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/abhisek/prepdeck/internal/bank"
)

const keyPrefix = "prepdeck:pool"

// Redis is a PoolCache backed by a Redis server. Pools are JSON-encoded
// and namespaced so Clear only touches one user's keys.
type Redis struct {
	rdb       *goredis.Client
	namespace string
}

// DialRedis connects to addr and verifies the server answers.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedis returns a cache over rdb scoped to namespace (typically a user ID).
func NewRedis(rdb *goredis.Client, namespace string) *Redis {
	return &Redis{rdb: rdb, namespace: namespace}
}

func (r *Redis) key(k Key) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, r.namespace, k)
}

func (r *Redis) Get(ctx context.Context, key Key) ([]bank.Question, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	return decodePool(raw, err)
}

func (r *Redis) Take(ctx context.Context, key Key) ([]bank.Question, bool, error) {
	raw, err := r.rdb.GetDel(ctx, r.key(key)).Bytes()
	return decodePool(raw, err)
}

func (r *Redis) Put(ctx context.Context, key Key, qs []bank.Question, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("encode pool: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store pool %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, r.namespace)
	iter := r.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan pools: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete pools: %w", err)
	}
	return nil
}

func decodePool(raw []byte, err error) ([]bank.Question, bool, error) {
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read pool: %w", err)
	}
	var qs []bank.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, false, fmt.Errorf("decode pool: %w", err)
	}
	return qs, true, nil
}
