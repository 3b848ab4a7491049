// Package worldevents fires the periodic random encounters that land
// in active groups independently of command processing.
package worldevents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/notifier"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

const (
	// Period between firing attempts
	Period = time.Hour
	// Chance that an attempt actually fires
	Chance = 0.3
)

// Event is one random encounter template
type Event struct {
	Name        string
	Description string
	Actions     []string
}

// Catalog is the fixed encounter table
var Catalog = []Event{
	{
		Name:        "神秘老人",
		Description: "一位神秘老人出现在群中，他似乎想传授武功",
		Actions:     []string{"/learn 降龙十八掌", "/ignore"},
	},
	{
		Name:        "武林秘宝",
		Description: "有人发现了一处藏宝地，内含珍贵装备",
		Actions:     []string{"/search", "/leave"},
	},
	{
		Name:        "门派挑战",
		Description: "其他门派前来挑战，捍卫门派荣誉的时刻到了！",
		Actions:     []string{"/accept_challenge", "/decline"},
	},
}

// Timer periodically rolls for a random event at a random group
type Timer struct {
	world  *world.State
	sender notifier.Sender
	rng    rng.Roller
	logger *zap.Logger
}

// New creates an event timer
func New(w *world.State, sender notifier.Sender, r rng.Roller, logger *zap.Logger) *Timer {
	return &Timer{world: w, sender: sender, rng: r, logger: logger}
}

// Run ticks until the context is canceled
func (t *Timer) Run(ctx context.Context) {
	ticker := time.NewTicker(Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick rolls once; most ticks fire nothing
func (t *Timer) Tick(ctx context.Context) {
	var groupID int64
	fired := false

	t.world.View(func(reg *world.Registries) {
		if len(reg.Groups) == 0 {
			return
		}
		if t.rng.Float64() >= Chance {
			return
		}
		groupIDs := make([]int64, 0, len(reg.Groups))
		for id := range reg.Groups {
			groupIDs = append(groupIDs, id)
		}
		groupID = groupIDs[t.rng.Intn(len(groupIDs))]
		fired = true
	})
	if !fired {
		return
	}

	event := Catalog[t.rng.Intn(len(Catalog))]
	text := fmt.Sprintf("✨【江湖奇遇】✨\n%s\n\n%s\n\n", event.Name, event.Description)
	for i, action := range event.Actions {
		text += fmt.Sprintf("%d. %s\n", i+1, action)
	}

	t.logger.Info("world event fired", zap.String("event", event.Name), zap.Int64("group_id", groupID))
	if err := t.sender.Send(ctx, groupID, text); err != nil {
		t.logger.Error("failed to announce world event", zap.Error(err))
	}
}
