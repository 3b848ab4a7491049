package worldevents

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
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

func newTestTimer(script *rng.Script, withGroup bool) (*Timer, *recordingSender) {
	st := world.New()
	if withGroup {
		st.Update(func(reg *world.Registries) { reg.TouchGroup(500, "华山论剑群") })
	}
	sender := &recordingSender{}
	return New(st, sender, script, zap.NewNop()), sender
}

func TestTickFiresAnEvent(t *testing.T) {
	// chance roll, then group pick and catalog pick
	timer, sender := newTestTimer(&rng.Script{Floats: []float64{0.1}, Ints: []int{0, 1}}, true)
	timer.Tick(context.Background())

	got := sender.texts()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "江湖奇遇")
	assert.Contains(t, got[0], Catalog[1].Name)
	assert.Contains(t, got[0], Catalog[1].Actions[0])
}

func TestTickUsuallyFiresNothing(t *testing.T) {
	timer, sender := newTestTimer(&rng.Script{Floats: []float64{0.9}, Ints: []int{0}}, true)
	timer.Tick(context.Background())
	assert.Empty(t, sender.texts())
}

func TestTickNeedsGroups(t *testing.T) {
	timer, sender := newTestTimer(&rng.Script{Floats: []float64{0.0}, Ints: []int{0}}, false)
	timer.Tick(context.Background())
	assert.Empty(t, sender.texts())
}
