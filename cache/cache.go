package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 30 * time.Second

// StateCache caches serialized auction state responses. A nil *StateCache is
// valid and disables caching, so callers never need to branch on config.
type StateCache struct {
	client *redis.Client
}

func NewStateCache(addr string) (*StateCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &StateCache{client: client}, nil
}

func (c *StateCache) Get(ctx context.Context, auctionID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, stateKey(auctionID)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *StateCache) Set(ctx context.Context, auctionID string, payload []byte) {
	if c == nil {
		return
	}
	// Cache population is best effort; a write failure only costs a DB read.
	_ = c.client.Set(ctx, stateKey(auctionID), payload, stateTTL).Err()
}

func (c *StateCache) Invalidate(ctx context.Context, auctionID string) error {
	if c == nil {
		return nil
	}
	err := c.client.Del(ctx, stateKey(auctionID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (c *StateCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func stateKey(auctionID string) string {
	return "auction:state:" + auctionID
}
