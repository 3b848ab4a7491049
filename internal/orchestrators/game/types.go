package game

import (
	"time"
	"unicode/utf8"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/game/progression"
)

// Actor identifies the player issuing a command and the chat the
// command arrived from.
type Actor struct {
	UserID    int64
	Name      string
	ChatID    int64
	ChatTitle string
}

// UserLevelUp attributes one gained level to a character so each can
// be announced as its own message, in order.
type UserLevelUp struct {
	UserID int64
	Name   string
	Level  int
}

// StartInput defines the request for creating a character
type StartInput struct {
	Actor Actor
}

// StartOutput reports whether a character was created or already
// existed; Character is a detached copy.
type StartOutput struct {
	Character *entities.Character
	Created   bool
}

// ProfileInput defines the request for a character profile
type ProfileInput struct {
	Actor Actor
}

// ProfileOutput carries a detached character copy plus resolved names
type ProfileOutput struct {
	Character *entities.Character
	ClanName  string
}

// CultivateInput defines the request for cultivation
type CultivateInput struct {
	Actor Actor
}

// CultivateOutput reports recovery and experience gained
type CultivateOutput struct {
	Character *entities.Character
	Recovered int
	ExpGained int
	LevelUps  []UserLevelUp
}

// DailyInput defines the request for the daily reward
type DailyInput struct {
	Actor Actor
}

// DailyOutput reports the randomized reward granted
type DailyOutput struct {
	Gold     int
	Exp      int
	LevelUps []UserLevelUp
}

// FightInput defines the request for attacking a monster
type FightInput struct {
	Actor     Actor
	MonsterID string
}

// FightOutput reports the bout and any spoils
type FightOutput struct {
	MonsterName  string
	MonsterLevel int
	Log          []string
	Won          bool
	Draw         bool
	Gold         int
	Exp          int
	Drop         *entities.Equipment
	BossKill     bool
	LevelUps     []UserLevelUp
}

// UseSkillInput defines the request for preparing a skill
type UseSkillInput struct {
	Actor     Actor
	SkillName string
}

// UseSkillOutput confirms the prepared skill
type UseSkillOutput struct {
	Skill entities.Skill
}

// MySkillsInput defines the request for listing learned skills
type MySkillsInput struct {
	Actor Actor
}

// SkillStatus is one learned skill plus its cooldown state
type SkillStatus struct {
	Skill     entities.Skill
	Ready     bool
	Remaining time.Duration
}

// MySkillsOutput lists learned skills in learning order
type MySkillsOutput struct {
	Entries []SkillStatus
}

// PKInput defines the request for a player duel
type PKInput struct {
	Actor  Actor
	Target string
}

// PKOutput reports the duel. Winner and Loser are detached copies and
// nil on a draw.
type PKOutput struct {
	Challenger *entities.Character
	Opponent   *entities.Character
	Winner     *entities.Character
	Loser      *entities.Character
	Draw       bool
	Log        []string
	Drop       *entities.Equipment
	LevelUps   []UserLevelUp
}

// CreateClanInput defines the request for founding a clan
type CreateClanInput struct {
	Actor Actor
	Name  string
}

// CreateClanOutput carries the founded clan
type CreateClanOutput struct {
	Clan *entities.Clan
}

// JoinClanInput defines the request for joining a clan
type JoinClanInput struct {
	Actor  Actor
	ClanID string
}

// JoinClanOutput carries the joined clan
type JoinClanOutput struct {
	Clan *entities.Clan
}

// LeaveClanInput defines the request for leaving a clan
type LeaveClanInput struct {
	Actor Actor
}

// LeaveClanOutput names the clan that was left
type LeaveClanOutput struct {
	ClanName string
}

// ListClansInput defines the request for the clan listing
type ListClansInput struct{}

// ClanSummary is one clan listing row
type ClanSummary struct {
	ID         string
	Name       string
	Members    int
	LeaderName string
}

// ListClansOutput lists clans oldest first
type ListClansOutput struct {
	Entries []ClanSummary
}

// ClanWarInput defines the request for a clan war
type ClanWarInput struct {
	Actor        Actor
	TargetClanID string
}

// MemberDrop is one loot award from a clan war, delivered to the
// member's own chat.
type MemberDrop struct {
	UserID int64
	Item   *entities.Equipment
}

// ClanWarOutput reports the war. WinnerName and LoserName are empty on
// an overall draw.
type ClanWarOutput struct {
	Log        []string
	Draw       bool
	WinnerName string
	LoserName  string
	Drops      []MemberDrop
	LevelUps   []UserLevelUp
}

// AdminInput defines the request for an operator command
type AdminInput struct {
	Actor      Actor
	Subcommand string
}

// AdminOutput reports the resulting flag state; Known is false when
// the subcommand is not recognized.
type AdminOutput struct {
	Known      bool
	Invincible bool
}

// LearnInput defines the request for a learning attempt
type LearnInput struct {
	Actor Actor
}

// LearnOutput reports whether enlightenment struck
type LearnOutput struct {
	Learned bool
	Skill   entities.Skill
}

// ChatMessageInput is fed for every non-command chat line
type ChatMessageInput struct {
	Actor Actor
	Text  string
}

// ChatMessageOutput reports passive chat experience
type ChatMessageOutput struct {
	ExpGained bool
	LevelUps  []UserLevelUp
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

func toUserLevelUps(c *entities.Character, ups []progression.LevelUp) []UserLevelUp {
	if len(ups) == 0 {
		return nil
	}
	out := make([]UserLevelUp, len(ups))
	for i, up := range ups {
		out[i] = UserLevelUp{UserID: c.ID, Name: c.Name, Level: up.Level}
	}
	return out
}
