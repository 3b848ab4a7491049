// Package equipment procedurally generates loot from a level
// parameter: the monster's level for PvE drops, the character's own
// level for PvP and clan-war drops. Whether a drop happens at all is
// the caller's probability check, not the generator's.
package equipment

import (
	"math"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/idgen"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
)

const maxRarity = 4

// Generator constructs equipment items
type Generator struct {
	rng   rng.Roller
	idGen idgen.Generator
}

// New creates a generator
func New(r rng.Roller, ids idgen.Generator) *Generator {
	return &Generator{rng: r, idGen: ids}
}

// Generate builds one item from the source level. Rarity is level/5
// clamped to [0, 4]; base stat is floor(level × (1 + rarity×0.5)),
// applied as attack for weapons and defense for everything else.
func (g *Generator) Generate(level int) *entities.Equipment {
	slot := entities.Slots[g.rng.Intn(len(entities.Slots))]
	rarity := Rarity(level)
	baseStat := int(math.Floor(float64(level) * (1 + float64(rarity)*0.5)))

	item := &entities.Equipment{
		ID:               g.idGen.Generate(),
		Name:             entities.RarityLabels[rarity] + entities.SlotLabels[slot],
		Slot:             slot,
		Rarity:           rarity,
		LevelRequirement: level,
	}
	if slot == entities.SlotWeapon {
		item.Attack = baseStat
	} else {
		item.Defense = baseStat
	}
	return item
}

// Rarity maps a source level to its tier, clamped to [0, 4]
func Rarity(level int) int {
	rarity := level / 5
	if rarity > maxRarity {
		rarity = maxRarity
	}
	if rarity < 0 {
		rarity = 0
	}
	return rarity
}
