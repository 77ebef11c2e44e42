//go:build integration

package xredis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis 优先使用 XSINK_REDIS_ADDR，否则启动 redis 容器
func setupRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	if addr := os.Getenv("XSINK_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			t.Skipf("无法连接到 Redis %s: %v", addr, err)
		}
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.2-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSink_Integration(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	prefix := fmt.Sprintf("xsink-it-%d", time.Now().UnixNano())

	s, err := New(client, prefix, WithTTL(time.Minute))
	require.NoError(t, err)

	require.NoError(t, s.Open())
	_, err = s.Write([]byte("first"))
	require.NoError(t, err)
	require.NoError(t, s.Cut())
	_, err = s.Write([]byte("second"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	segs, err := s.Segments(ctx)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	first, err := client.Get(ctx, segs[0]).Result()
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	ttl, err := client.TTL(ctx, segs[1]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	t.Cleanup(func() {
		_ = client.Del(ctx, append(segs, s.IndexKey())...).Err()
	})
}
