// Package testutils provides shared test helpers: in-memory Redis
// clients and world fixtures.
package testutils

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/jianghu-rpg/jianghu-api/internal/redis"
)

// CreateTestRedisClient creates an in-memory Redis client for testing
func CreateTestRedisClient(t *testing.T) (redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")

	cleanup := func() {
		mr.Close()
	}

	return client, cleanup
}

// CreateTestRedisClientWithServer also exposes the miniredis server so
// tests can fast-forward TTLs or corrupt stored values.
func CreateTestRedisClientWithServer(t *testing.T) (redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")

	cleanup := func() {
		mr.Close()
	}

	return client, mr, cleanup
}

// AssertRedisConnected verifies the client can reach its server
func AssertRedisConnected(t *testing.T, client redis.Client) {
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	require.NoError(t, err, "redis client should be connected")
	require.Equal(t, "PONG", pong)
}

// IsRedisNilError reports whether the error is the redis nil sentinel
func IsRedisNilError(err error) bool {
	return err != nil && errors.Is(err, redis.Nil)
}
