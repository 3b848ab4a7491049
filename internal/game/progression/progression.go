// Package progression applies experience deltas and resolves level-ups.
package progression

import (
	"math"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
)

// Per-level stat growth
const (
	healthPerLevel  = 20
	spiritPerLevel  = 10
	attackPerLevel  = 5
	defensePerLevel = 3
	speedPerLevel   = 1

	expCurveFactor = 1.5
)

// LevelUp records one level gained, in order, so each can be announced
// as its own event during a multi-level jump.
type LevelUp struct {
	Level int
}

// AddExp applies a signed experience delta and resolves any level-ups.
// Negative deltas are applied without a floor; a character can carry
// negative lifetime experience (PvP loss debt) and never levels down.
// Returns the level-ups gained, oldest first.
func AddExp(c *entities.Character, delta int) []LevelUp {
	c.Exp += delta

	var ups []LevelUp
	for c.Exp >= c.ExpToNextLevel {
		c.Exp -= c.ExpToNextLevel
		c.Level++
		c.ExpToNextLevel = int(math.Floor(float64(c.ExpToNextLevel) * expCurveFactor))

		c.MaxHealth += healthPerLevel
		c.Health = c.MaxHealth
		c.MaxSpirit += spiritPerLevel
		c.Spirit = c.MaxSpirit
		c.Attack += attackPerLevel
		c.Defense += defensePerLevel
		c.Speed += speedPerLevel

		ups = append(ups, LevelUp{Level: c.Level})
	}

	c.Title = entities.TitleForLevel(c.Level)
	return ups
}
