package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"libraryhub/internal/http-api/models"

	"github.com/redis/go-redis/v9"
)

// BookCache is a read-through Redis cache for book detail lookups. A nil
// *BookCache is a valid no-op cache, so callers never need to branch on
// whether Redis is configured.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookCache(redisURL, password string, ttl time.Duration) (*BookCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &BookCache{client: rdb, ttl: ttl}, nil
}

func bookKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

// Get returns the cached book and true on a hit. Cache errors are treated as
// misses; the database stays the source of truth.
func (c *BookCache) Get(ctx context.Context, id int64) (*models.Book, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var b models.Book
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}
	return &b, true
}

func (c *BookCache) Set(ctx context.Context, b *models.Book) {
	if c == nil || c.client == nil || b == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	c.client.Set(ctx, bookKey(b.ID), raw, c.ttl)
}

// Invalidate drops the cached entry after any mutation that touches the book
// row (stock moves, rating refresh, admin edits).
func (c *BookCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, bookKey(id))
}

func (c *BookCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
