// Package entities defines the world-state data model and the immutable
// game catalogs (skills, monster archetypes, titles, equipment tiers).
package entities

// Slot identifies an equipment slot
type Slot string

// Equipment slots
const (
	SlotWeapon    Slot = "weapon"
	SlotArmor     Slot = "armor"
	SlotHelmet    Slot = "helmet"
	SlotBoots     Slot = "boots"
	SlotAccessory Slot = "accessory"
)

// Slots lists every equipment slot in generation order
var Slots = []Slot{SlotWeapon, SlotArmor, SlotHelmet, SlotBoots, SlotAccessory}

// Clan roles
const (
	RoleLeader = "掌门"
	RoleMember = "普通弟子"
	RoleNone   = "无门派"
)

// Character is a player-controlled persistent entity. All timestamps
// are milliseconds since epoch, matching the persisted snapshot format.
type Character struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	Level          int                 `json:"level"`
	Exp            int                 `json:"exp"`
	ExpToNextLevel int                 `json:"expToNextLevel"`
	Health         int                 `json:"health"`
	MaxHealth      int                 `json:"maxHealth"`
	Spirit         int                 `json:"spirit"`
	MaxSpirit      int                 `json:"maxSpirit"`
	Attack         int                 `json:"attack"`
	Defense        int                 `json:"defense"`
	Speed          int                 `json:"speed"`
	Gold           int                 `json:"gold"`
	Title          string              `json:"title"`
	ClanID         string              `json:"clanId,omitempty"`
	ClanRole       string              `json:"clanRole"`
	Equipped       map[Slot]*Equipment `json:"equip"`
	Inventory      []*Equipment        `json:"inventory"`
	Skills         []int               `json:"skills"`
	ActiveSkill    int                 `json:"activeSkill"`
	SkillCooldowns map[int]int64       `json:"skillCooldowns"`

	LastCultivateTime int64 `json:"lastCultivateTime"`
	LastPKTime        int64 `json:"lastPkTime"`
	LastDaily         int64 `json:"lastDaily"`
	LastMessageTime   int64 `json:"lastMessageTime"`
	MessageCount      int   `json:"messageCount"`
	CreatedTime       int64 `json:"createdTime"`

	MonsterKills int `json:"monsterKills"`
	BossKills    int `json:"bossKills"`
	PKWins       int `json:"pkWins"`
	PKLosses     int `json:"pkLosses"`
}

// NewCharacter constructs a character with starting stats. Every new
// arrival knows the first skill and starts with 100 gold.
func NewCharacter(id int64, name string, nowMilli int64) *Character {
	cooldowns := make(map[int]int64, len(Skills))
	for _, s := range Skills {
		cooldowns[s.ID] = 0
	}

	return &Character{
		ID:             id,
		Name:           name,
		Level:          1,
		Exp:            0,
		ExpToNextLevel: 100,
		Health:         100,
		MaxHealth:      100,
		Spirit:         100,
		MaxSpirit:      100,
		Attack:         10,
		Defense:        5,
		Speed:          10,
		Gold:           100,
		Title:          Titles[0],
		ClanRole:       RoleMember,
		Equipped: map[Slot]*Equipment{
			SlotWeapon:    nil,
			SlotArmor:     nil,
			SlotHelmet:    nil,
			SlotBoots:     nil,
			SlotAccessory: nil,
		},
		Inventory:      []*Equipment{},
		Skills:         []int{1},
		SkillCooldowns: cooldowns,
		CreatedTime:    nowMilli,
	}
}

// Knows reports whether the character has learned the given skill
func (c *Character) Knows(skillID int) bool {
	for _, id := range c.Skills {
		if id == skillID {
			return true
		}
	}
	return false
}

// GainSpirit adds spirit, clamped to MaxSpirit
func (c *Character) GainSpirit(amount int) {
	c.Spirit += amount
	if c.Spirit > c.MaxSpirit {
		c.Spirit = c.MaxSpirit
	}
}

// GainHealth adds health, clamped to MaxHealth
func (c *Character) GainHealth(amount int) {
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
}

// Clone returns a deep copy, used for persistence snapshots and combat
// snapshots so resolution never mutates live state.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Equipped = make(map[Slot]*Equipment, len(c.Equipped))
	for slot, eq := range c.Equipped {
		if eq != nil {
			e := *eq
			cp.Equipped[slot] = &e
		} else {
			cp.Equipped[slot] = nil
		}
	}
	cp.Inventory = make([]*Equipment, len(c.Inventory))
	for i, eq := range c.Inventory {
		e := *eq
		cp.Inventory[i] = &e
	}
	cp.Skills = append([]int(nil), c.Skills...)
	cp.SkillCooldowns = make(map[int]int64, len(c.SkillCooldowns))
	for id, t := range c.SkillCooldowns {
		cp.SkillCooldowns[id] = t
	}
	return &cp
}
