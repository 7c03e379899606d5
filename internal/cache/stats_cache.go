package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const statsKey = "sairaklin:reviews:stats"

// StatsCache menyimpan hasil agregasi review publik.
type StatsCache interface {
	Get(ctx context.Context) (*models.ReviewStats, bool)
	Set(ctx context.Context, stats *models.ReviewStats)
	Invalidate(ctx context.Context)
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// ConnectRedis membuka client redis dan langsung ping.
func ConnectRedis(opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RedisStatsCache: error redis tidak pernah menggagalkan request, cukup di-log
// lalu jatuh ke database.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*models.ReviewStats, bool) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.WithError(err).Warn("stats cache get failed")
		}
		return nil, false
	}

	var stats models.ReviewStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		utils.ErrorLogger.WithError(err).Warn("stats cache entry corrupt")
		return nil, false
	}
	return &stats, true
}

func (c *RedisStatsCache) Set(ctx context.Context, stats *models.ReviewStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		utils.ErrorLogger.WithError(err).Warn("stats cache set failed")
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		utils.ErrorLogger.WithError(err).Warn("stats cache invalidate failed")
	}
}
