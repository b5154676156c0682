package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swissMack/simportal/internal/model"
)

// UsageCache caches usage window totals so repeated consumption-page queries
// do not re-aggregate the samples table on every poll.
type UsageCache interface {
	GetTotals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error)
	SetTotals(ctx context.Context, totals *model.UsageTotals) error
	InvalidateSim(ctx context.Context, simID string) error
}

// ErrCacheMiss is returned when no cached entry exists for the window.
var ErrCacheMiss = errors.New("repository: cache miss")

type redisUsageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisUsageCache(rdb *redis.Client, ttl time.Duration) UsageCache {
	return &redisUsageCache{rdb: rdb, ttl: ttl}
}

func (c *redisUsageCache) totalsKey(simID string, from, to time.Time) string {
	return fmt.Sprintf("usage:%s:%d:%d", simID, from.Unix(), to.Unix())
}

func (c *redisUsageCache) simSetKey(simID string) string {
	return fmt.Sprintf("usage:%s:windows", simID)
}

func (c *redisUsageCache) GetTotals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error) {
	val, err := c.rdb.Get(ctx, c.totalsKey(simID, from, to)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var totals model.UsageTotals
	if err := json.Unmarshal([]byte(val), &totals); err != nil {
		return nil, fmt.Errorf("could not unmarshal cached totals: %w", err)
	}
	return &totals, nil
}

func (c *redisUsageCache) SetTotals(ctx context.Context, totals *model.UsageTotals) error {
	val, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("could not marshal totals: %w", err)
	}
	key := c.totalsKey(totals.SimID, totals.From, totals.To)
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, val, c.ttl)
	// Track every cached window per SIM so new samples can invalidate them all.
	pipe.SAdd(ctx, c.simSetKey(totals.SimID), key)
	pipe.Expire(ctx, c.simSetKey(totals.SimID), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *redisUsageCache) InvalidateSim(ctx context.Context, simID string) error {
	keys, err := c.rdb.SMembers(ctx, c.simSetKey(simID)).Result()
	if err != nil {
		return err
	}
	keys = append(keys, c.simSetKey(simID))
	return c.rdb.Del(ctx, keys...).Err()
}
