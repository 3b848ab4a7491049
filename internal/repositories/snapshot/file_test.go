package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
)

func newFileRepo(t *testing.T) (Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	repo, err := NewFile(&FileConfig{Path: path, Logger: zap.NewNop()})
	require.NoError(t, err)
	return repo, path
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file returns defaults", func(t *testing.T) {
		repo, _ := newFileRepo(t)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Users)
		assert.Equal(t, entities.DefaultGlobalConfig(), snap.Config)
	})

	t.Run("save then load round-trips the world", func(t *testing.T) {
		repo, _ := newFileRepo(t)

		require.NoError(t, repo.Save(ctx, seedSnapshot()))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assertSeededSnapshot(t, got)
	})

	t.Run("malformed file falls back to defaults", func(t *testing.T) {
		repo, path := newFileRepo(t)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Users)
	})

	t.Run("save replaces previous content atomically", func(t *testing.T) {
		repo, path := newFileRepo(t)

		require.NoError(t, repo.Save(ctx, seedSnapshot()))

		second := seedSnapshot()
		second.Users[1].Gold = 1
		require.NoError(t, repo.Save(ctx, second))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Users[1].Gold)

		// No temp files left behind
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, filepath.Base(path), entries[0].Name())
	})

	t.Run("config validation", func(t *testing.T) {
		_, err := NewFile(&FileConfig{Logger: zap.NewNop()})
		assert.Error(t, err)
	})
}
