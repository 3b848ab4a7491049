package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/testutils"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

func seedSnapshot() *world.Snapshot {
	snap := world.NewSnapshot()
	c := entities.NewCharacter(1, "令狐冲", 1000)
	c.Gold = 4321
	c.Level = 12
	snap.Users[1] = c
	snap.Groups[-100] = &entities.Group{ID: -100, Title: "华山绝顶"}
	snap.Clans["clan_1"] = entities.NewClan("clan_1", "华山派", 1, 1000)
	snap.Monsters["m1"] = &entities.Monster{ID: "m1", Name: "山贼", Level: 3, Health: 80, GroupID: -100}
	snap.Config.InvincibleMode = true
	return snap
}

func assertSeededSnapshot(t *testing.T, got *world.Snapshot) {
	t.Helper()
	require.Contains(t, got.Users, int64(1))
	assert.Equal(t, "令狐冲", got.Users[1].Name)
	assert.Equal(t, 4321, got.Users[1].Gold)
	assert.Equal(t, 12, got.Users[1].Level)
	assert.Equal(t, "华山绝顶", got.Groups[-100].Title)
	assert.Equal(t, "华山派", got.Clans["clan_1"].Name)
	assert.Equal(t, 80, got.Monsters["m1"].Health)
	assert.True(t, got.Config.InvincibleMode)
}

func TestRedisRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("load without stored snapshot returns defaults", func(t *testing.T) {
		client, cleanup := testutils.CreateTestRedisClient(t)
		defer cleanup()
		repo, err := NewRedis(&RedisConfig{Client: client, Logger: zap.NewNop()})
		require.NoError(t, err)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Users)
		assert.Equal(t, entities.DefaultGlobalConfig(), snap.Config)
	})

	t.Run("save then load round-trips the world", func(t *testing.T) {
		client, cleanup := testutils.CreateTestRedisClient(t)
		defer cleanup()
		repo, err := NewRedis(&RedisConfig{Client: client, Logger: zap.NewNop()})
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, seedSnapshot()))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assertSeededSnapshot(t, got)
	})

	t.Run("malformed stored snapshot falls back to defaults", func(t *testing.T) {
		client, mr, cleanup := testutils.CreateTestRedisClientWithServer(t)
		defer cleanup()
		repo, err := NewRedis(&RedisConfig{Client: client, Logger: zap.NewNop()})
		require.NoError(t, err)

		require.NoError(t, mr.Set("world:snapshot", "{not json"))

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Users)
		assert.Equal(t, entities.DefaultGlobalConfig(), snap.Config)
	})

	t.Run("nil snapshot is rejected", func(t *testing.T) {
		client, cleanup := testutils.CreateTestRedisClient(t)
		defer cleanup()
		repo, err := NewRedis(&RedisConfig{Client: client, Logger: zap.NewNop()})
		require.NoError(t, err)

		assert.Error(t, repo.Save(ctx, nil))
	})
}
