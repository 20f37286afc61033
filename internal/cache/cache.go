// Package cache puts a Redis read-through layer in front of a stat
// provider. The engine never sees it; it only shortens the path to the last
// successful provider response. Redis outages degrade to direct provider
// calls and never fail a fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
	"github.com/warroom-labs/draftboard/internal/providers"
)

// TTLs per data class. A season-only blob can live a full day; records
// carrying a trailing window expire on the recent cadence; live deltas are
// near-realtime.
const (
	SeasonTTL = 24 * time.Hour
	RecentTTL = 6 * time.Hour
	LiveTTL   = 90 * time.Second
)

// Provider is a read-through cache around an inner StatProvider.
type Provider struct {
	inner providers.StatProvider
	rdb   *redis.Client
}

// Wrap returns the inner provider behind a Redis cache.
func Wrap(inner providers.StatProvider, rdb *redis.Client) *Provider {
	return &Provider{inner: inner, rdb: rdb}
}

// Sport returns the inner provider's sport.
func (c *Provider) Sport() models.Sport {
	return c.inner.Sport()
}

// seasonKey names the cached season-records blob. The window parameterizes
// the fetch, so it is part of the key.
func (c *Provider) seasonKey(window int) string {
	return fmt.Sprintf("draft:%s:season:w%d", c.inner.Sport(), window)
}

// liveKey names the cached live-deltas blob.
func (c *Provider) liveKey() string {
	return fmt.Sprintf("draft:%s:live", c.inner.Sport())
}

// SeasonRecords serves from Redis when possible, otherwise fetches from the
// inner provider and writes the result back.
func (c *Provider) SeasonRecords(ctx context.Context, window int) ([]models.SeasonRecord, error) {
	key := c.seasonKey(window)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var records []models.SeasonRecord
		if err := json.Unmarshal(data, &records); err == nil {
			logger.Debug("cache: season records hit", "key", key, "players", len(records))
			return records, nil
		}
		logger.Warn("cache: corrupt season entry, refetching", "key", key)
	} else if err != redis.Nil {
		logger.Warn("cache: read failed, going direct", "key", key, "error", err)
	}

	records, err := c.inner.SeasonRecords(ctx, window)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, records, seasonTTLFor(records))
	return records, nil
}

// LiveRecords serves from Redis when possible, otherwise fetches from the
// inner provider and writes the result back under the live TTL.
func (c *Provider) LiveRecords(ctx context.Context) ([]models.LiveRecord, error) {
	key := c.liveKey()

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var live []models.LiveRecord
		if err := json.Unmarshal(data, &live); err == nil {
			logger.Debug("cache: live records hit", "key", key, "players", len(live))
			return live, nil
		}
		logger.Warn("cache: corrupt live entry, refetching", "key", key)
	} else if err != redis.Nil {
		logger.Warn("cache: read failed, going direct", "key", key, "error", err)
	}

	live, err := c.inner.LiveRecords(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, live, LiveTTL)
	return live, nil
}

// store writes a JSON blob back to Redis. Failures are logged and dropped;
// the fetched data is already in hand.
func (c *Provider) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache: marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("cache: write failed", "key", key, "error", err)
	}
}

// seasonTTLFor picks the TTL class for a season-records blob: records that
// carry trailing-window rates go stale on the recent cadence.
func seasonTTLFor(records []models.SeasonRecord) time.Duration {
	for _, rec := range records {
		if len(rec.Recent) > 0 {
			return RecentTTL
		}
	}
	return SeasonTTL
}
