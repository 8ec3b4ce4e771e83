package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	redisCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := redisCont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate redis container: %v", err)
		}
	})

	addr, err := redisCont.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get container endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestRedisCounter_Integration(t *testing.T) {
	client := setupRedis(t)
	counter := NewRedisCounter(client)
	ctx := context.Background()

	t.Run("counts hits and sets expiry once", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			hits, err := counter.Hit(ctx, "ratelimit:test", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, hits)
		}

		ttl, err := client.TTL(ctx, "ratelimit:test").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("window expires", func(t *testing.T) {
		_, err := counter.Hit(ctx, "ratelimit:short", time.Second)
		require.NoError(t, err)

		time.Sleep(1500 * time.Millisecond)

		hits, err := counter.Hit(ctx, "ratelimit:short", time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), hits)
	})
}
