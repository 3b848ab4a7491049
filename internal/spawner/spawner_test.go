package spawner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/idgen"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
	"github.com/jianghu-rpg/jianghu-api/internal/testutils"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(_ context.Context, _ int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingSender) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func newTestSpawner(t *testing.T, st *world.State, script *rng.Script) (*Spawner, *clock.Fixed, *recordingSender) {
	t.Helper()
	fixed := clock.NewFixed(testutils.TestTime)
	sender := &recordingSender{}
	s, err := New(&Config{
		World:  st,
		Sender: sender,
		Clock:  fixed,
		RNG:    script,
		IDGen:  idgen.NewSequential("monster"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return s, fixed, sender
}

func worldWithGroup(groupID int64) *world.State {
	st := world.New()
	st.Update(func(reg *world.Registries) {
		reg.TouchGroup(groupID, "华山论剑群")
	})
	return st
}

func TestSpawnOnce(t *testing.T) {
	st := worldWithGroup(500)
	// group pick, archetype pick, level offset
	s, fixed, _ := newTestSpawner(t, st, &rng.Script{Ints: []int{0, 0, 2}})

	m, ok := s.SpawnOnce()
	require.True(t, ok)
	assert.Equal(t, "monster_1", m.ID)
	assert.Equal(t, "小喽啰", m.Name)
	assert.Equal(t, int64(500), m.GroupID)

	// archetype base 1 raised to 3 scales stats threefold
	assert.Equal(t, 3, m.Level)
	assert.Equal(t, 150, m.Health)
	assert.Equal(t, 150, m.MaxHealth)
	assert.Equal(t, 15, m.Attack)
	assert.Equal(t, 6, m.Defense)
	assert.Equal(t, 15, m.GoldMin)
	assert.Equal(t, 45, m.GoldMax)
	assert.Equal(t, 30, m.Exp)
	assert.Equal(t, testutils.TestTime.UnixMilli(), m.SpawnTime)

	st.View(func(reg *world.Registries) {
		assert.Contains(t, reg.Monsters, "monster_1")
		assert.Equal(t, testutils.TestTime.UnixMilli(), reg.Config.LastMonsterSpawn)
	})

	t.Run("suppressed inside the minimum gap", func(t *testing.T) {
		_, ok := s.SpawnOnce()
		assert.False(t, ok)

		fixed.Advance(MinSpawnGap + time.Second)
		m, ok := s.SpawnOnce()
		require.True(t, ok)
		assert.Equal(t, "monster_2", m.ID)
	})
}

func TestSpawnOnceNeedsGroups(t *testing.T) {
	st := world.New()
	s, _, _ := newTestSpawner(t, st, &rng.Script{Ints: []int{0}})

	_, ok := s.SpawnOnce()
	assert.False(t, ok)

	// The gap is burned even when no group could host the spawn
	st.View(func(reg *world.Registries) {
		assert.Equal(t, testutils.TestTime.UnixMilli(), reg.Config.LastMonsterSpawn)
	})
}

func TestTickAnnouncesSpawn(t *testing.T) {
	st := worldWithGroup(500)
	s, _, sender := newTestSpawner(t, st, &rng.Script{Ints: []int{0}})

	s.Tick(context.Background())
	got := sender.texts()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "小喽啰")
	assert.Contains(t, got[0], "/fight monster_1")
}

func TestExpire(t *testing.T) {
	st := worldWithGroup(500)
	s, _, sender := newTestSpawner(t, st, &rng.Script{Ints: []int{0}})

	m := testutils.CreateTestMonster("monster_1", 500)
	st.Update(func(reg *world.Registries) { reg.InsertMonster(m) })

	s.expire("monster_1", 500, m.Name, m.Level)
	st.View(func(reg *world.Registries) {
		assert.NotContains(t, reg.Monsters, "monster_1")
	})
	got := sender.texts()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "逃走")

	t.Run("already defeated fires nothing", func(t *testing.T) {
		s.expire("monster_1", 500, m.Name, m.Level)
		assert.Len(t, sender.texts(), 1)
	})
}

func TestSweepExpired(t *testing.T) {
	st := worldWithGroup(500)
	s, fixed, sender := newTestSpawner(t, st, &rng.Script{Ints: []int{0}})

	// A monster carried in from a restored snapshot has no timer armed
	stale := testutils.CreateTestMonster("monster_old", 500)
	st.Update(func(reg *world.Registries) { reg.InsertMonster(stale) })

	t.Run("keeps monsters still inside their lifetime", func(t *testing.T) {
		fixed.Advance(Lifetime - time.Second)
		s.SweepExpired()
		st.View(func(reg *world.Registries) {
			assert.Contains(t, reg.Monsters, "monster_old")
		})
		assert.Empty(t, sender.texts())
	})

	t.Run("retires monsters past their lifetime", func(t *testing.T) {
		fixed.Advance(2 * time.Second)
		s.SweepExpired()
		st.View(func(reg *world.Registries) {
			assert.NotContains(t, reg.Monsters, "monster_old")
		})
		got := sender.texts()
		require.Len(t, got, 1)
		assert.Contains(t, got[0], "逃走")
	})

	t.Run("tick retires restored monsters before spawning", func(t *testing.T) {
		stale2 := testutils.CreateTestMonster("monster_old2", 500)
		st.Update(func(reg *world.Registries) { reg.InsertMonster(stale2) })
		fixed.Advance(Lifetime + time.Second)

		s.Tick(context.Background())
		st.View(func(reg *world.Registries) {
			assert.NotContains(t, reg.Monsters, "monster_old2")
		})
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	st := worldWithGroup(500)
	s, _, _ := newTestSpawner(t, st, &rng.Script{Ints: []int{0}})
	s.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("spawner did not stop on cancel")
	}
}
