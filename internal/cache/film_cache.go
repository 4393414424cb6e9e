// Package cache holds the optional Redis read-through cache for the
// popular-films ranking. Cache trouble is logged and degrades to the storage
// layer; it never fails a request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkraev/filmoteka/internal/models"
	"github.com/mkraev/filmoteka/pkg/logger"
)

const popularKeyPrefix = "films:popular:"

type FilmCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and returns the cache. The caller decides whether a
// failed connection is fatal.
func New(addr, password string, db int, ttl time.Duration) (*FilmCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache connected", "addr", addr)
	return &FilmCache{client: client, ttl: ttl}, nil
}

// GetPopular returns the cached ranking for count, or ok=false on miss or
// any cache error.
func (c *FilmCache) GetPopular(ctx context.Context, count int) ([]models.Film, bool) {
	raw, err := c.client.Get(ctx, popularKey(count)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Popular films cache read failed", "error", err)
		}
		return nil, false
	}

	var films []models.Film
	if err := json.Unmarshal(raw, &films); err != nil {
		logger.Warn("Popular films cache entry corrupt, dropping", "error", err)
		_ = c.client.Del(ctx, popularKey(count)).Err()
		return nil, false
	}
	return films, true
}

func (c *FilmCache) SetPopular(ctx context.Context, count int, films []models.Film) {
	raw, err := json.Marshal(films)
	if err != nil {
		logger.Warn("Popular films cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, popularKey(count), raw, c.ttl).Err(); err != nil {
		logger.Warn("Popular films cache write failed", "error", err)
	}
}

// Invalidate drops every cached ranking. Called after any film or like
// mutation.
func (c *FilmCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, popularKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("Popular films cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Popular films cache invalidation failed", "error", err)
	}
}

func (c *FilmCache) Close() error {
	return c.client.Close()
}

func popularKey(count int) string {
	return fmt.Sprintf("%s%d", popularKeyPrefix, count)
}
