package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/idgen"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
)

func TestRarity(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 0},
		{4, 0},
		{5, 1},
		{9, 1},
		{10, 2},
		{19, 3},
		{20, 4},
		{24, 4},
		{100, 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Rarity(tc.level), "level %d", tc.level)
	}
}

func TestGenerate_Weapon(t *testing.T) {
	g := New(&rng.Script{Ints: []int{0}}, idgen.NewSequential("item"))

	item := g.Generate(10)

	assert.Equal(t, "item_1", item.ID)
	assert.Equal(t, entities.SlotWeapon, item.Slot)
	assert.Equal(t, 2, item.Rarity)
	// floor(10 × (1 + 2×0.5)) = 20, on attack for weapons
	assert.Equal(t, 20, item.Attack)
	assert.Zero(t, item.Defense)
	assert.Equal(t, "稀有武器", item.Name)
	assert.Equal(t, 10, item.LevelRequirement)
}

func TestGenerate_ArmorGetsDefense(t *testing.T) {
	g := New(&rng.Script{Ints: []int{1}}, idgen.NewSequential("item"))

	item := g.Generate(3)

	assert.Equal(t, entities.SlotArmor, item.Slot)
	assert.Equal(t, 0, item.Rarity)
	assert.Equal(t, 3, item.Defense)
	assert.Zero(t, item.Attack)
	assert.Equal(t, "普通护甲", item.Name)
}

func TestGenerate_LegendaryTier(t *testing.T) {
	g := New(&rng.Script{Ints: []int{4}}, idgen.NewSequential("item"))

	item := g.Generate(30)

	assert.Equal(t, entities.SlotAccessory, item.Slot)
	assert.Equal(t, 4, item.Rarity)
	// floor(30 × 3) = 90
	assert.Equal(t, 90, item.Defense)
	assert.Equal(t, "传说饰品", item.Name)
}
