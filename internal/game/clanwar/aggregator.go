// Package clanwar orchestrates best-of-three wars between two clans'
// top members and distributes the aggregate rewards.
package clanwar

import (
	"fmt"
	"sort"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/game/combat"
	"github.com/jianghu-rpg/jianghu-api/internal/game/equipment"
	"github.com/jianghu-rpg/jianghu-api/internal/game/progression"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

// War parameters
const (
	Bouts           = 3
	FightersPerSide = 3

	winnerGold      = 200
	winnerSpirit    = 10
	winnerExp       = 20
	loserExpPenalty = 10
	dropChance      = 0.4
)

// Config holds the aggregator's dependencies
type Config struct {
	Resolver  *combat.Resolver
	Equipment *equipment.Generator
	RNG       rng.Roller
	Clock     clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Equipment == nil {
		vb.RequiredField("Equipment")
	}
	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// Aggregator runs clan wars
type Aggregator struct {
	resolver  *combat.Resolver
	equipment *equipment.Generator
	rng       rng.Roller
	clock     clock.Clock
}

// New creates an aggregator with the provided dependencies
func New(cfg *Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Aggregator{
		resolver:  cfg.Resolver,
		equipment: cfg.Equipment,
		rng:       cfg.RNG,
		clock:     cfg.Clock,
	}, nil
}

// MemberReward records what one winning-side member received
type MemberReward struct {
	UserID   int64
	Drop     *entities.Equipment
	LevelUps []progression.LevelUp
}

// Outcome is the result of one clan war. Winner and Loser are nil on
// an overall draw, which grants no rewards and no penalties.
type Outcome struct {
	Winner    *entities.Clan
	Loser     *entities.Clan
	WinsA     int
	WinsB     int
	Log       []string
	Rewards   []MemberReward
	Penalized []int64
}

// Run executes a war between attacker and defender clans. The caller
// has already verified the attacker's war cooldown; Run stamps both
// clans' war timestamps, fights exactly three bouts between the top
// members of each side, and applies rewards on a decisive outcome.
// Must be called inside a world Update.
func (a *Aggregator) Run(reg *world.Registries, attacker, defender *entities.Clan) (*Outcome, error) {
	now := a.clock.Now().UnixMilli()
	attacker.LastWarTime = now
	defender.LastWarTime = now

	sideA := a.topFighters(reg, attacker)
	sideB := a.topFighters(reg, defender)
	if len(sideA) == 0 || len(sideB) == 0 {
		return nil, errors.FailedPrecondition("参战成员不足！")
	}

	out := &Outcome{}
	out.Log = append(out.Log, fmt.Sprintf("🏯【门派大战】🏯\n「%s」 vs 「%s」", attacker.Name, defender.Name))

	for i := 0; i < Bouts; i++ {
		fighterA := sideA[i%len(sideA)]
		fighterB := sideB[i%len(sideB)]

		out.Log = append(out.Log, fmt.Sprintf("\n⚔️ 第%d场：%s vs %s", i+1, fighterA.Name, fighterB.Name))

		res := a.resolver.Resolve(combat.CharacterSnapshot(fighterA), combat.CharacterSnapshot(fighterB))
		out.Log = append(out.Log, res.Log...)
		fighterA.ActiveSkill = res.A.ActiveSkill
		fighterB.ActiveSkill = res.B.ActiveSkill

		switch res.Winner {
		case combat.SideA:
			out.WinsA++
			out.Log = append(out.Log, fmt.Sprintf("🏆 胜者：%s", fighterA.Name))
		case combat.SideB:
			out.WinsB++
			out.Log = append(out.Log, fmt.Sprintf("🏆 胜者：%s", fighterB.Name))
		default:
			out.Log = append(out.Log, "平局！")
		}
	}

	switch {
	case out.WinsA > out.WinsB:
		out.Winner, out.Loser = attacker, defender
	case out.WinsB > out.WinsA:
		out.Winner, out.Loser = defender, attacker
	default:
		out.Log = append(out.Log, "\n⚖️ 门派大战以平局收场！")
		return out, nil
	}
	out.Log = append(out.Log, fmt.Sprintf("\n🎉 最终胜利：%s！", out.Winner.Name))

	a.reward(reg, out)
	return out, nil
}

// topFighters returns up to three members ranked by level descending,
// keeping original membership order on ties. Members without a live
// character are skipped.
func (a *Aggregator) topFighters(reg *world.Registries, clan *entities.Clan) []*entities.Character {
	fighters := make([]*entities.Character, 0, len(clan.Members))
	for _, id := range clan.Members {
		if u, ok := reg.Users[id]; ok {
			fighters = append(fighters, u)
		}
	}
	sort.SliceStable(fighters, func(i, j int) bool {
		return fighters[i].Level > fighters[j].Level
	})
	if len(fighters) > FightersPerSide {
		fighters = fighters[:FightersPerSide]
	}
	return fighters
}

// reward pays every member of the winning clan and penalizes every
// member of the loser. Drops are rolled independently per member at
// that member's own level.
func (a *Aggregator) reward(reg *world.Registries, out *Outcome) {
	for _, id := range out.Winner.Members {
		member, ok := reg.Users[id]
		if !ok {
			continue
		}
		member.Gold += winnerGold
		member.GainSpirit(winnerSpirit)
		ups := progression.AddExp(member, winnerExp)

		reward := MemberReward{UserID: id, LevelUps: ups}
		if a.rng.Float64() < dropChance {
			drop := a.equipment.Generate(member.Level)
			member.Inventory = append(member.Inventory, drop)
			reward.Drop = drop
		}
		out.Rewards = append(out.Rewards, reward)
	}

	for _, id := range out.Loser.Members {
		member, ok := reg.Users[id]
		if !ok {
			continue
		}
		progression.AddExp(member, -loserExpPenalty)
		out.Penalized = append(out.Penalized, id)
	}
}
