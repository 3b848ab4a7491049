// Package cooldown implements the generic time-elapsed permission
// check reused by every timed action: combat challenges, clan wars,
// cultivation, daily rewards, and per-skill casts.
package cooldown

import (
	"math"
	"time"

	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
)

// Standard action cooldowns
const (
	PK        = 5 * time.Minute
	ClanWar   = 60 * time.Minute
	Cultivate = 60 * time.Minute
	Daily     = 24 * time.Hour
)

// Status is the outcome of a gate check. When not allowed, Remaining
// is the wait left and is always positive.
type Status struct {
	Allowed   bool
	Remaining time.Duration
}

// Gate checks elapsed time against required durations. The caller is
// responsible for stamping the new last-timestamp once it commits the
// gated action.
type Gate struct {
	clock clock.Clock
}

// New creates a gate on the given clock
func New(c clock.Clock) *Gate {
	return &Gate{clock: c}
}

// Check compares now against a last-action timestamp in epoch
// milliseconds. A zero timestamp means the action never ran and is
// always permitted.
func (g *Gate) Check(lastMilli int64, required time.Duration) Status {
	if lastMilli == 0 {
		return Status{Allowed: true}
	}
	elapsed := g.clock.Now().Sub(time.UnixMilli(lastMilli))
	if elapsed >= required {
		return Status{Allowed: true}
	}
	return Status{Allowed: false, Remaining: required - elapsed}
}

// NowMilli returns the gate clock's current time in epoch milliseconds,
// the value callers stamp after a permitted action.
func (g *Gate) NowMilli() int64 {
	return g.clock.Now().UnixMilli()
}

// Minutes rounds a remaining wait up to whole minutes for display
func Minutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}

// Hours rounds a remaining wait up to whole hours for display
func Hours(d time.Duration) int {
	return int(math.Ceil(d.Hours()))
}
