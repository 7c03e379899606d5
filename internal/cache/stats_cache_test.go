package cache

import (
	"testing"
	"time"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.SilenceLoggers()
}

// port 1 tidak pernah listen: semua operasi redis gagal cepat.
const deadAddr = "127.0.0.1:1"

func TestConnectRedisFailsWhenUnreachable(t *testing.T) {
	_, err := ConnectRedis(Options{Addr: deadAddr})
	assert.Error(t, err)
}

func TestRedisStatsCacheDegradesOnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        deadAddr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	c := NewRedisStatsCache(client, 0)
	require.Equal(t, time.Minute, c.ttl)

	// error redis tidak bocor ke pemanggil
	c.Set(t.Context(), &models.ReviewStats{AverageRating: 4.5, TotalReviews: 2})
	c.Invalidate(t.Context())

	stats, ok := c.Get(t.Context())
	assert.False(t, ok)
	assert.Nil(t, stats)
}
