package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const leaderboardKey = "leaderboard:global"

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

// Entry is one leaderboard row keyed by username.
type Entry struct {
	Username   string `json:"username"`
	TotalScore int    `json:"totalScore"`
}

// SetLeaderboard replaces the cached leaderboard ZSET in one pipeline.
func (c *RedisCache) SetLeaderboard(entries []Entry, ttl time.Duration) error {
	pipe := c.client.Pipeline()
	pipe.Del(c.ctx, leaderboardKey)
	for _, entry := range entries {
		pipe.ZAdd(c.ctx, leaderboardKey, &redis.Z{
			Score:  float64(entry.TotalScore),
			Member: entry.Username,
		})
	}
	pipe.Expire(c.ctx, leaderboardKey, ttl)

	_, err := pipe.Exec(c.ctx)
	return err
}

// GetLeaderboard returns the cached top-limit entries by score descending.
// A missing key yields an empty slice, not an error.
func (c *RedisCache) GetLeaderboard(limit int64) ([]Entry, error) {
	results, err := c.client.ZRevRangeWithScores(c.ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(results))
	for i, z := range results {
		entries[i] = Entry{
			Username:   z.Member.(string),
			TotalScore: int(z.Score),
		}
	}
	return entries, nil
}

// Exists reports whether a cached leaderboard is present.
func (c *RedisCache) Exists() (bool, error) {
	n, err := c.client.Exists(c.ctx, leaderboardKey).Result()
	return n > 0, err
}

// Invalidate drops the cached leaderboard.
func (c *RedisCache) Invalidate() error {
	return c.client.Del(c.ctx, leaderboardKey).Err()
}
