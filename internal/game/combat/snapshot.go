package combat

import "github.com/jianghu-rpg/jianghu-api/internal/entities"

// CharacterSnapshot builds a combatant from a character's current
// stats plus equipped item bonuses.
func CharacterSnapshot(c *entities.Character) Combatant {
	attack := c.Attack
	defense := c.Defense
	for _, eq := range c.Equipped {
		if eq == nil {
			continue
		}
		attack += eq.Attack
		defense += eq.Defense
	}
	return Combatant{
		Name:        c.Name,
		Health:      c.Health,
		Attack:      attack,
		Defense:     defense,
		ActiveSkill: c.ActiveSkill,
	}
}

// MonsterSnapshot builds a combatant from a live monster
func MonsterSnapshot(m *entities.Monster) Combatant {
	return Combatant{
		Name:    m.Name,
		Health:  m.Health,
		Attack:  m.Attack,
		Defense: m.Defense,
	}
}
