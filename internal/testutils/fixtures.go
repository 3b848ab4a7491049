package testutils

import (
	"time"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
)

// TestTime is the fixed wall-clock instant tests run at
var TestTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// CreateTestCharacter creates a character at the given level with
// stats that match organic growth from the starting sheet.
func CreateTestCharacter(id int64, name string, level int) *entities.Character {
	c := entities.NewCharacter(id, name, TestTime.UnixMilli())
	for l := 1; l < level; l++ {
		c.Level++
		c.MaxHealth += 20
		c.MaxSpirit += 10
		c.Attack += 5
		c.Defense += 3
		c.Speed++
	}
	c.Health = c.MaxHealth
	c.Spirit = c.MaxSpirit
	c.Title = entities.TitleForLevel(c.Level)
	return c
}

// CreateTestClan creates a clan led by the given character
func CreateTestClan(id, name string, leader *entities.Character, members ...*entities.Character) *entities.Clan {
	clan := entities.NewClan(id, name, leader.ID, TestTime.UnixMilli())
	leader.ClanID = clan.ID
	leader.ClanRole = entities.RoleLeader
	for _, m := range members {
		clan.Members = append(clan.Members, m.ID)
		m.ClanID = clan.ID
		m.ClanRole = entities.RoleMember
	}
	return clan
}

// CreateTestMonster creates a monster from the weakest archetype at
// its base level.
func CreateTestMonster(id string, groupID int64) *entities.Monster {
	a := entities.MonsterArchetypes[0]
	return &entities.Monster{
		ID:        id,
		Name:      a.Name,
		Level:     a.Level,
		Health:    a.Health,
		MaxHealth: a.Health,
		Attack:    a.Attack,
		Defense:   a.Defense,
		GoldMin:   a.GoldMin,
		GoldMax:   a.GoldMax,
		Exp:       a.Exp,
		GroupID:   groupID,
		SpawnTime: TestTime.UnixMilli(),
	}
}
