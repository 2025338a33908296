// Package cache provides a Redis read-through cache for computed holdings.
package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/metrics"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	keyPrefix     = "holdings:"
	generationKey = keyPrefix + "generation"
)

// Entry is one cached holdings computation.
type Entry struct {
	Rows    []model.HoldingRow
	Summary model.HoldingsSummary
}

// HoldingsCache caches holdings per filter in Redis. Every write to the
// ledger, assets or prices bumps a generation counter that is part of the
// key, so invalidation is a single INCR and stale entries expire on their own.
//
// A nil *HoldingsCache is valid and caches nothing.
type HoldingsCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewHoldingsCache creates a cache backed by rdb. Entries live for ttl.
func NewHoldingsCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *HoldingsCache {
	return &HoldingsCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "holdings_cache").Logger(),
	}
}

// Get returns the cached entry for filter, if any, together with the key a
// freshly computed entry must be stored under. The key pins the generation
// current at lookup time, so a computation that races with a write lands in a
// generation nobody reads. An empty key means the entry must not be stored.
// Redis errors are treated as a miss.
func (c *HoldingsCache) Get(ctx context.Context, filter model.HoldingsFilter) (*Entry, string, bool) {
	if c == nil {
		return nil, "", false
	}
	key, err := c.key(ctx, filter)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to read cache generation")
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, "", false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("Failed to read cached holdings")
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, key, false
	}

	entry, err := Decode(data)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, key, false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return entry, key, true
}

// Set stores entry under a key returned by Get. Failures are logged and
// otherwise ignored.
func (c *HoldingsCache) Set(ctx context.Context, key string, entry Entry) {
	if c == nil || key == "" {
		return
	}
	data, err := Encode(entry)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode holdings for cache")
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to cache holdings")
	}
}

// Invalidate drops every cached computation.
func (c *HoldingsCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to invalidate holdings cache")
	}
}

func (c *HoldingsCache) key(ctx context.Context, filter model.HoldingsFilter) (string, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s%d:%s", keyPrefix, gen, FilterKey(filter)), nil
}

// FilterKey is a canonical string for a filter: equal filters produce equal
// keys regardless of the order of their IDs.
func FilterKey(filter model.HoldingsFilter) string {
	accounts := slices.Clone(filter.AccountIDs)
	assets := slices.Clone(filter.AssetIDs)
	slices.Sort(accounts)
	slices.Sort(assets)
	return strings.Join([]string{
		"acct=" + strings.Join(slices.Compact(accounts), ","),
		"asset=" + strings.Join(slices.Compact(assets), ","),
		"type=" + string(filter.AssetType),
		"vol=" + string(filter.VolatilityBucket),
	}, ";")
}

// Encode serializes an entry with msgpack.
func Encode(entry Entry) ([]byte, error) {
	return msgpack.Marshal(toWire(entry))
}

// Decode deserializes an entry produced by Encode.
func Decode(data []byte) (*Entry, error) {
	var w entryWire
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return fromWire(w)
}
