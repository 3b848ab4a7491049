package entities

import "time"

// Skill effect kinds. A skill has exactly one: a damage multiplier, a
// defense multiplier with a round duration, or dodge-and-counter.
type Skill struct {
	ID                int
	Name              string
	Description       string
	DamageMultiplier  float64
	DefenseMultiplier float64
	Duration          int
	Dodge             bool
	Cost              int
	// Cooldown of zero means the global default applies
	Cooldown time.Duration
}

// Well-known skill IDs
const (
	SkillSwordArt  = 1 // 独孤九剑: 150% attack damage
	SkillGoldBell  = 2 // 金钟罩: +50% defense while prepared
	SkillCloudStep = 3 // 凌波微步: dodge next attack and counter
)

// Skills is the immutable skill catalog, keyed by skill ID
var Skills = map[int]Skill{
	SkillSwordArt: {
		ID:               SkillSwordArt,
		Name:             "独孤九剑",
		Description:      "剑法精妙，造成150%攻击伤害",
		DamageMultiplier: 1.5,
		Cost:             20,
		Cooldown:         3 * time.Minute,
	},
	SkillGoldBell: {
		ID:                SkillGoldBell,
		Name:              "金钟罩",
		Description:       "提升防御50%，持续2回合",
		DefenseMultiplier: 1.5,
		Duration:          2,
		Cost:              15,
	},
	SkillCloudStep: {
		ID:          SkillCloudStep,
		Name:        "凌波微步",
		Description: "闪避下次攻击并反击",
		Dodge:       true,
		Cost:        25,
		Cooldown:    4 * time.Minute,
	},
}

// SkillByName looks a skill up by display name
func SkillByName(name string) (Skill, bool) {
	for _, s := range Skills {
		if s.Name == name {
			return s, true
		}
	}
	return Skill{}, false
}
