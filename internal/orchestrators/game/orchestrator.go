// Package game implements the command orchestrator. Each operation
// runs its full read-validate-mutate sequence inside one world update
// so concurrent commands never interleave, then persists a snapshot
// after the lock is released.
package game

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/game/clanwar"
	"github.com/jianghu-rpg/jianghu-api/internal/game/combat"
	"github.com/jianghu-rpg/jianghu-api/internal/game/cooldown"
	"github.com/jianghu-rpg/jianghu-api/internal/game/equipment"
	"github.com/jianghu-rpg/jianghu-api/internal/game/progression"
	"github.com/jianghu-rpg/jianghu-api/internal/notifier"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/idgen"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
	"github.com/jianghu-rpg/jianghu-api/internal/repositories/snapshot"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

// Reward and pacing tunables
const (
	cultivateHealFactor = 0.1
	cultivateExp        = 5

	dailyGoldBase   = 200
	dailyGoldSpread = 300
	dailyExpBase    = 10
	dailyExpSpread  = 20

	chatMinRunes     = 5
	chatExpThreshold = 3
	chatExp          = 1

	learnChance = 0.002
)

// Config holds the orchestrator's dependencies
type Config struct {
	World     *world.State
	Snapshots snapshot.Repository
	Gate      *cooldown.Gate
	Resolver  *combat.Resolver
	Equipment *equipment.Generator
	ClanWars  *clanwar.Aggregator
	RNG       rng.Roller
	ClanIDs   idgen.Generator
	Logger    *zap.Logger
	// Operator receives persistence-failure reports; optional
	Operator *notifier.Operator
	AdminID  int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Snapshots == nil {
		vb.RequiredField("Snapshots")
	}
	if c.Gate == nil {
		vb.RequiredField("Gate")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Equipment == nil {
		vb.RequiredField("Equipment")
	}
	if c.ClanWars == nil {
		vb.RequiredField("ClanWars")
	}
	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.ClanIDs == nil {
		vb.RequiredField("ClanIDs")
	}
	return vb.Build()
}

// Orchestrator implements Service against the in-memory world
type Orchestrator struct {
	world     *world.State
	snapshots snapshot.Repository
	gate      *cooldown.Gate
	resolver  *combat.Resolver
	equipment *equipment.Generator
	clanWars  *clanwar.Aggregator
	rng       rng.Roller
	clanIDs   idgen.Generator
	logger    *zap.Logger
	operator  *notifier.Operator
	adminID   int64
}

// New creates an orchestrator with the provided dependencies
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		world:     cfg.World,
		snapshots: cfg.Snapshots,
		gate:      cfg.Gate,
		resolver:  cfg.Resolver,
		equipment: cfg.Equipment,
		clanWars:  cfg.ClanWars,
		rng:       cfg.RNG,
		clanIDs:   cfg.ClanIDs,
		logger:    logger,
		operator:  cfg.Operator,
		adminID:   cfg.AdminID,
	}, nil
}

// persist writes the current world snapshot. A failed save is reported
// to the operator but never fails the command that triggered it; the
// in-memory world remains authoritative.
func (o *Orchestrator) persist(ctx context.Context) {
	snap := o.world.Snapshot()
	if err := o.snapshots.Save(ctx, snap); err != nil {
		o.logger.Error("failed to persist world snapshot", zap.Error(err))
		if o.operator != nil {
			o.operator.Report(ctx, "保存数据失败: %v", err)
		}
	}
}

// requireUser resolves the acting character, which must already exist
func requireUser(reg *world.Registries, actor Actor) (*entities.Character, error) {
	c, ok := reg.Users[actor.UserID]
	if !ok {
		return nil, errors.NotFound("请先使用 /start 创建角色！")
	}
	return c, nil
}

// touchGroup records the chat as a known group when the command came
// from a group chat rather than a private one.
func (o *Orchestrator) touchGroup(reg *world.Registries, actor Actor) {
	if actor.ChatID != 0 && actor.ChatID != actor.UserID {
		reg.TouchGroup(actor.ChatID, actor.ChatTitle)
	}
}

// Start creates the actor's character, or reports the existing one
func (o *Orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil || input.Actor.UserID == 0 {
		return nil, errors.InvalidArgument("actor is required")
	}
	out := &StartOutput{}
	o.world.Update(func(reg *world.Registries) {
		o.touchGroup(reg, input.Actor)
		c, created := reg.GetOrCreateUser(input.Actor.UserID, input.Actor.Name, o.gate.NowMilli())
		out.Character = c.Clone()
		out.Created = created
	})
	o.persist(ctx)
	return out, nil
}

// Profile returns the actor's character sheet
func (o *Orchestrator) Profile(ctx context.Context, input *ProfileInput) (*ProfileOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out := &ProfileOutput{}
	var opErr error
	o.world.View(func(reg *world.Registries) {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			opErr = err
			return
		}
		out.Character = c.Clone()
		if clan, ok := reg.Clans[c.ClanID]; ok {
			out.ClanName = clan.Name
		}
	})
	if opErr != nil {
		return nil, opErr
	}
	return out, nil
}

// Cultivate heals the actor, refills spirit, and grants a trickle of
// experience. Gated to once per hour.
func (o *Orchestrator) Cultivate(ctx context.Context, input *CultivateInput) (*CultivateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out := &CultivateOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		st := o.gate.Check(c.LastCultivateTime, cooldown.Cultivate)
		if !st.Allowed {
			return errors.CooldownActive(
				fmt.Sprintf("你刚刚修炼过，还需等待%d分钟才能再次修炼。", cooldown.Minutes(st.Remaining)),
				st.Remaining)
		}

		recovered := int(float64(c.Level) * cultivateHealFactor * float64(c.MaxHealth))
		c.GainHealth(recovered)
		c.Spirit = c.MaxSpirit
		ups := progression.AddExp(c, cultivateExp)
		c.LastCultivateTime = o.gate.NowMilli()

		out.Character = c.Clone()
		out.Recovered = recovered
		out.ExpGained = cultivateExp
		out.LevelUps = toUserLevelUps(c, ups)
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// Daily grants the randomized daily stipend, once per 24 hours
func (o *Orchestrator) Daily(ctx context.Context, input *DailyInput) (*DailyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out := &DailyOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		st := o.gate.Check(c.LastDaily, cooldown.Daily)
		if !st.Allowed {
			return errors.CooldownActive(
				fmt.Sprintf("今日奖励已领取，请%d小时后再来！", cooldown.Hours(st.Remaining)),
				st.Remaining)
		}

		gold := dailyGoldBase + o.rng.Intn(dailyGoldSpread)
		exp := dailyExpBase + o.rng.Intn(dailyExpSpread)
		c.Gold += gold
		ups := progression.AddExp(c, exp)
		c.LastDaily = o.gate.NowMilli()

		out.Gold = gold
		out.Exp = exp
		out.LevelUps = toUserLevelUps(c, ups)
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// Admin toggles operator flags. Only the configured operator account
// may call it.
func (o *Orchestrator) Admin(ctx context.Context, input *AdminInput) (*AdminOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Actor.UserID != o.adminID {
		return nil, errors.PermissionDenied("你不是管理员，无权使用此命令！")
	}
	out := &AdminOutput{}
	o.world.Update(func(reg *world.Registries) {
		switch input.Subcommand {
		case "boos":
			reg.Config.InvincibleMode = true
			out.Known = true
		case "sss":
			reg.Config.InvincibleMode = false
			out.Known = true
		}
		out.Invincible = reg.Config.InvincibleMode
	})
	if out.Known {
		o.persist(ctx)
	}
	return out, nil
}

// Learn gives a small random chance of spontaneously mastering an
// unlearned skill.
func (o *Orchestrator) Learn(ctx context.Context, input *LearnInput) (*LearnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out := &LearnOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		var pool []int
		for id := range entities.Skills {
			if !c.Knows(id) {
				pool = append(pool, id)
			}
		}
		if len(pool) == 0 {
			return nil
		}
		sort.Ints(pool)
		if o.rng.Float64() >= learnChance {
			return nil
		}
		id := pool[o.rng.Intn(len(pool))]
		c.Skills = append(c.Skills, id)
		out.Learned = true
		out.Skill = entities.Skills[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Learned {
		o.persist(ctx)
	}
	return out, nil
}

// ChatMessage records chat activity. Every third substantial message
// grants one experience point.
func (o *Orchestrator) ChatMessage(ctx context.Context, input *ChatMessageInput) (*ChatMessageOutput, error) {
	if input == nil || input.Actor.UserID == 0 {
		return nil, errors.InvalidArgument("actor is required")
	}
	out := &ChatMessageOutput{}
	o.world.Update(func(reg *world.Registries) {
		o.touchGroup(reg, input.Actor)
		now := o.gate.NowMilli()
		c, _ := reg.GetOrCreateUser(input.Actor.UserID, input.Actor.Name, now)
		c.LastMessageTime = now
		if runeCount(input.Text) < chatMinRunes {
			return
		}
		c.MessageCount++
		if c.MessageCount >= chatExpThreshold {
			c.MessageCount = 0
			ups := progression.AddExp(c, chatExp)
			out.ExpGained = true
			out.LevelUps = toUserLevelUps(c, ups)
		}
	})
	o.persist(ctx)
	return out, nil
}
