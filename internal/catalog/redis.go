package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares the catalog between processes of one play session.
// Entries expire after ttl so a new session refetches the membership lists.
type RedisCache struct {
	client  *redis.Client
	session string
	ttl     time.Duration
}

// NewRedisCache returns a cache scoped to session.
func NewRedisCache(client *redis.Client, session string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, session: session, ttl: ttl}
}

// Get loads the cached lists. Undecodable entries are reported as a miss.
func (r *RedisCache) Get(ctx context.Context) ([][]string, bool, error) {
	raw, err := r.client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog cache: %w", err)
	}
	var gens [][]string
	if err := json.Unmarshal(raw, &gens); err != nil {
		return nil, false, nil
	}
	return gens, true, nil
}

// Put stores the lists with the session ttl.
func (r *RedisCache) Put(ctx context.Context, gens [][]string) error {
	raw, err := json.Marshal(gens)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

func (r *RedisCache) key() string {
	return "pokeguess:catalog:" + r.session
}
