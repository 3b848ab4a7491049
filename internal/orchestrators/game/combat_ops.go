package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/game/combat"
	"github.com/jianghu-rpg/jianghu-api/internal/game/cooldown"
	"github.com/jianghu-rpg/jianghu-api/internal/game/progression"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

// Duel spoils, exported so the chat layer can narrate them
const (
	PKWinnerGold   = 100
	PKWinnerSpirit = 10
	PKWinnerExp    = 10
	PKLoserExpLoss = 10
)

const (
	monsterDropChance = 0.3
	pkDropChance      = 0.3
)

// invincibleHealth replaces the acting character's health in the bout
// snapshot while invincible mode is on, so the character cannot be
// worn down.
const invincibleHealth = 1 << 30

// Fight challenges a spawned monster. A win removes the monster and
// pays gold, experience, and a possible drop; anything else writes the
// monster's remaining health back so others can finish it.
func (o *Orchestrator) Fight(ctx context.Context, input *FightInput) (*FightOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.MonsterID) == "" {
		return nil, errors.InvalidArgument("请指定要挑战的怪物，例如 /fight <怪物ID>")
	}
	out := &FightOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		m, ok := reg.Monsters[input.MonsterID]
		if !ok {
			return errors.NotFound("这只怪物已经逃走了！")
		}

		invincible := reg.Config.InvincibleMode
		me := combat.CharacterSnapshot(c)
		if invincible {
			me.Health = invincibleHealth
		}
		res := o.resolver.Resolve(me, combat.MonsterSnapshot(m))
		c.ActiveSkill = res.A.ActiveSkill

		out.MonsterName = m.Name
		out.MonsterLevel = m.Level
		out.Log = res.Log

		switch res.Winner {
		case combat.SideA:
			if !invincible {
				c.Health = res.A.Health
			}
			reg.RemoveMonster(m.ID)

			gold := m.GoldMin + o.rng.Intn(m.GoldMax-m.GoldMin+1)
			c.Gold += gold
			ups := progression.AddExp(c, m.Exp)
			c.MonsterKills++
			if m.Level >= entities.BossLevel {
				c.BossKills++
				out.BossKill = true
			}
			if o.rng.Float64() < monsterDropChance {
				drop := o.equipment.Generate(m.Level)
				c.Inventory = append(c.Inventory, drop)
				out.Drop = drop
			}

			out.Won = true
			out.Gold = gold
			out.Exp = m.Exp
			out.LevelUps = toUserLevelUps(c, ups)
		case combat.SideB:
			if !invincible {
				// Defeat never kills; the character limps away
				c.Health = 1
			}
			m.Health = res.B.Health
		default:
			if !invincible {
				c.Health = res.A.Health
			}
			m.Health = res.B.Health
			out.Draw = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// PK duels another player found by name or ID. Only the challenger's
// cooldown gates the duel; both sides' duel timestamps are stamped.
func (o *Orchestrator) PK(ctx context.Context, input *PKInput) (*PKOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	target := strings.TrimPrefix(strings.TrimSpace(input.Target), "@")
	if target == "" {
		return nil, errors.InvalidArgument("请指定对手，例如 /pk 张三")
	}
	out := &PKOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		t, ok := reg.FindUserByName(target)
		if !ok {
			return errors.NotFound("找不到这位侠士！")
		}
		if t.ID == c.ID {
			return errors.InvalidArgument("不能和自己过招！")
		}
		st := o.gate.Check(c.LastPKTime, cooldown.PK)
		if !st.Allowed {
			return errors.CooldownActive(
				fmt.Sprintf("你刚与人过招，还需%d分钟恢复状态！", cooldown.Minutes(st.Remaining)),
				st.Remaining)
		}

		res := o.resolver.Resolve(combat.CharacterSnapshot(c), combat.CharacterSnapshot(t))
		now := o.gate.NowMilli()
		c.LastPKTime = now
		t.LastPKTime = now
		c.ActiveSkill = res.A.ActiveSkill
		t.ActiveSkill = res.B.ActiveSkill

		out.Log = res.Log

		var winner, loser *entities.Character
		switch res.Winner {
		case combat.SideA:
			winner, loser = c, t
		case combat.SideB:
			winner, loser = t, c
		default:
			out.Draw = true
			out.Challenger = c.Clone()
			out.Opponent = t.Clone()
			return nil
		}

		winner.Gold += PKWinnerGold
		winner.GainSpirit(PKWinnerSpirit)
		ups := progression.AddExp(winner, PKWinnerExp)
		winner.PKWins++
		progression.AddExp(loser, -PKLoserExpLoss)
		loser.PKLosses++

		if o.rng.Float64() < pkDropChance {
			drop := o.equipment.Generate(winner.Level)
			winner.Inventory = append(winner.Inventory, drop)
			out.Drop = drop
		}

		out.Challenger = c.Clone()
		out.Opponent = t.Clone()
		out.Winner = winner.Clone()
		out.Loser = loser.Clone()
		out.LevelUps = toUserLevelUps(winner, ups)
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// UseSkill prepares a learned skill for the next bout. The spirit cost
// is checked up front; the skill discharges when the bout consumes it.
func (o *Orchestrator) UseSkill(ctx context.Context, input *UseSkillInput) (*UseSkillOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name := strings.TrimSpace(input.SkillName)
	if name == "" {
		return nil, errors.InvalidArgument("请指定武功名称，例如 /use 独孤九剑")
	}
	out := &UseSkillOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		skill, ok := entities.SkillByName(name)
		if !ok {
			return errors.NotFound("未曾听闻这门武功！")
		}
		if !c.Knows(skill.ID) {
			return errors.FailedPreconditionf("你尚未习得「%s」！", skill.Name)
		}

		now := o.gate.NowMilli()
		if next := c.SkillCooldowns[skill.ID]; next > now {
			remaining := time.Duration(next-now) * time.Millisecond
			return errors.CooldownActive(
				fmt.Sprintf("「%s」尚在调息，还需%d分钟！", skill.Name, cooldown.Minutes(remaining)),
				remaining)
		}
		if c.Spirit < skill.Cost {
			return errors.FailedPreconditionf("内力不足，施展「%s」需要%d点内力！", skill.Name, skill.Cost)
		}

		cd := skill.Cooldown
		if cd == 0 {
			cd = time.Duration(reg.Config.SkillCooldown) * time.Millisecond
		}
		c.SkillCooldowns[skill.ID] = now + cd.Milliseconds()
		c.ActiveSkill = skill.ID

		out.Skill = skill
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// MySkills lists learned skills with their cooldown state, in the
// order they were learned.
func (o *Orchestrator) MySkills(ctx context.Context, input *MySkillsInput) (*MySkillsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out := &MySkillsOutput{}
	var opErr error
	o.world.View(func(reg *world.Registries) {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			opErr = err
			return
		}
		now := o.gate.NowMilli()
		for _, id := range c.Skills {
			skill, ok := entities.Skills[id]
			if !ok {
				continue
			}
			entry := SkillStatus{Skill: skill, Ready: true}
			if next := c.SkillCooldowns[id]; next > now {
				entry.Ready = false
				entry.Remaining = time.Duration(next-now) * time.Millisecond
			}
			out.Entries = append(out.Entries, entry)
		}
	})
	if opErr != nil {
		return nil, opErr
	}
	return out, nil
}
