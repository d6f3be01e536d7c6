package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/observability"
)

// DefaultCacheTTL is how long a stats snapshot is reused.
const DefaultCacheTTL = 10 * time.Minute

// StatsCache stores PriceStats by key.
type StatsCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) (*domain.PriceStats, error)
	Set(ctx context.Context, key string, stats *domain.PriceStats) error
}

// MemoryCache is an in-process StatsCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	stats     *domain.PriceStats
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache. A zero ttl uses DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get implements StatsCache.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.PriceStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, nil
	}
	return e.stats, nil
}

// Set implements StatsCache.
func (c *MemoryCache) Set(_ context.Context, key string, stats *domain.PriceStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{stats: stats, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// RedisCache is a StatsCache shared across processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheFromClient(client, opts.TTL), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl, prefix: "nftape:stats:"}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Get implements StatsCache.
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.PriceStats, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var stats domain.PriceStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &stats, nil
}

// Set implements StatsCache.
func (c *RedisCache) Set(ctx context.Context, key string, stats *domain.PriceStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CachedStatsSource serves stats from a cache before asking the wrapped source.
// Cache failures degrade to a direct fetch.
type CachedStatsSource struct {
	source StatsSource
	cache  StatsCache
	log    logrus.FieldLogger
}

// NewCachedStatsSource wraps source with cache.
func NewCachedStatsSource(source StatsSource, cache StatsCache, logger logrus.FieldLogger) *CachedStatsSource {
	return &CachedStatsSource{source: source, cache: cache, log: logging.OrDiscard(logger)}
}

// FetchStats implements StatsSource.
func (s *CachedStatsSource) FetchStats(ctx context.Context, key string) (*domain.PriceStats, error) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("stats cache read failed")
	}
	if cached != nil {
		observability.RecordCacheLookup(true)
		return cached, nil
	}
	observability.RecordCacheLookup(false)

	stats, err := s.source.FetchStats(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, stats); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("stats cache write failed")
	}
	return stats, nil
}

var (
	_ StatsCache  = (*MemoryCache)(nil)
	_ StatsCache  = (*RedisCache)(nil)
	_ StatsSource = (*CachedStatsSource)(nil)
)
