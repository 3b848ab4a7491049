package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
)

func newCharacter() *entities.Character {
	return entities.NewCharacter(1, "令狐冲", 0)
}

func TestAddExp_SingleLevelUp(t *testing.T) {
	c := newCharacter()

	ups := AddExp(c, 150)

	require.Len(t, ups, 1)
	assert.Equal(t, 2, ups[0].Level)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 50, c.Exp)
	assert.Equal(t, 150, c.ExpToNextLevel)

	// Growth plus full restore
	assert.Equal(t, 120, c.MaxHealth)
	assert.Equal(t, 120, c.Health)
	assert.Equal(t, 110, c.MaxSpirit)
	assert.Equal(t, 110, c.Spirit)
	assert.Equal(t, 15, c.Attack)
	assert.Equal(t, 8, c.Defense)
	assert.Equal(t, 11, c.Speed)
}

func TestAddExp_MultiLevelJumpIsOrdered(t *testing.T) {
	c := newCharacter()

	// 100 + 150 = 250 to reach level 3
	ups := AddExp(c, 260)

	require.Len(t, ups, 2)
	assert.Equal(t, 2, ups[0].Level)
	assert.Equal(t, 3, ups[1].Level)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 10, c.Exp)
	assert.Equal(t, 225, c.ExpToNextLevel)
}

func TestAddExp_CurveRoundsDown(t *testing.T) {
	c := newCharacter()
	AddExp(c, 100) // 100 -> 150
	AddExp(c, 150) // 150 -> 225
	assert.Equal(t, 225, c.ExpToNextLevel)
	AddExp(c, 225) // 225 -> 337, floor of 337.5
	assert.Equal(t, 337, c.ExpToNextLevel)
}

func TestAddExp_NegativeDeltaHasNoFloor(t *testing.T) {
	c := newCharacter()

	ups := AddExp(c, -30)
	assert.Empty(t, ups)
	assert.Equal(t, -30, c.Exp)
	assert.Equal(t, 1, c.Level)

	// Debt accumulates further
	AddExp(c, -30)
	assert.Equal(t, -60, c.Exp)

	// And is paid off before the next level
	ups = AddExp(c, 160)
	require.Len(t, ups, 1)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 0, c.Exp)
}

func TestAddExp_NeverLevelsDown(t *testing.T) {
	c := newCharacter()
	AddExp(c, 150)
	require.Equal(t, 2, c.Level)

	AddExp(c, -10000)
	assert.Equal(t, 2, c.Level)
}

func TestAddExp_RecomputesTitle(t *testing.T) {
	c := newCharacter()
	assert.Equal(t, entities.Titles[0], c.Title)

	c.Level = 19
	c.ExpToNextLevel = 10
	AddExp(c, 10)

	assert.Equal(t, 20, c.Level)
	assert.Equal(t, entities.TitleForLevel(20), c.Title)
	assert.Equal(t, entities.Titles[1], c.Title)
}
