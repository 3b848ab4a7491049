// Package spawner runs the timer-driven process that injects monsters
// into the world and expires them.
package spawner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/notifier"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/idgen"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

const (
	// MinSpawnGap is the floor between consecutive spawns regardless
	// of the configured timer period
	MinSpawnGap = 60 * time.Second

	// Lifetime is how long an unfought monster stays in the world
	Lifetime = 180 * time.Second

	// levelOffsetRange: a spawn's level is archetype base + [0, 5)
	levelOffsetRange = 5
)

// Config holds the spawner's dependencies
type Config struct {
	World  *world.State
	Sender notifier.Sender
	Clock  clock.Clock
	RNG    rng.Roller
	IDGen  idgen.Generator
	Logger *zap.Logger
	// Interval overrides the persisted spawn interval when positive
	Interval time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Sender == nil {
		vb.RequiredField("Sender")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}
	if c.Logger == nil {
		vb.RequiredField("Logger")
	}
	return vb.Build()
}

// Spawner injects monsters on a timer and removes them on expiry
type Spawner struct {
	world    *world.State
	sender   notifier.Sender
	clock    clock.Clock
	rng      rng.Roller
	idGen    idgen.Generator
	logger   *zap.Logger
	interval time.Duration
}

// New creates a spawner with the provided dependencies
func New(cfg *Config) (*Spawner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Spawner{
		world:    cfg.World,
		sender:   cfg.Sender,
		clock:    cfg.Clock,
		rng:      cfg.RNG,
		idGen:    cfg.IDGen,
		logger:   cfg.Logger,
		interval: cfg.Interval,
	}, nil
}

// Run ticks until the context is canceled
func (s *Spawner) Run(ctx context.Context) {
	interval := s.interval
	if interval <= 0 {
		s.world.View(func(reg *world.Registries) {
			interval = time.Duration(reg.Config.MonsterSpawnInterval) * time.Millisecond
		})
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick sweeps overdue monsters and attempts one spawn. The spawn is
// a no-op when the minimum gap since the last spawn has not elapsed
// or no groups are active.
func (s *Spawner) Tick(ctx context.Context) {
	s.SweepExpired()

	monster, ok := s.SpawnOnce()
	if !ok {
		return
	}

	s.logger.Info("monster spawned",
		zap.String("monster_id", monster.ID),
		zap.String("name", monster.Name),
		zap.Int("level", monster.Level),
		zap.Int64("group_id", monster.GroupID))

	text := fmt.Sprintf(
		"⚠️ 注意！发现%s（Lv.%d）！\n\n生命值: %d/%d\n攻击力: %d\n防御力: %d\n\n使用 /fight %s 攻击！",
		monster.Name, monster.Level, monster.Health, monster.MaxHealth,
		monster.Attack, monster.Defense, monster.ID)
	if err := s.sender.Send(ctx, monster.GroupID, text); err != nil {
		s.logger.Error("failed to announce spawn", zap.Error(err))
	}

	id, groupID, name, level := monster.ID, monster.GroupID, monster.Name, monster.Level
	time.AfterFunc(Lifetime, func() {
		s.expire(id, groupID, name, level)
	})
}

// SpawnOnce rolls and registers one monster. Returns false when the
// spawn was suppressed (rate gap, no groups).
func (s *Spawner) SpawnOnce() (*entities.Monster, bool) {
	now := s.clock.Now()
	var monster *entities.Monster

	s.world.Update(func(reg *world.Registries) {
		if now.UnixMilli()-reg.Config.LastMonsterSpawn < MinSpawnGap.Milliseconds() {
			return
		}
		// The gap is burned even when no group can host the spawn
		reg.Config.LastMonsterSpawn = now.UnixMilli()
		if len(reg.Groups) == 0 {
			return
		}

		groupIDs := make([]int64, 0, len(reg.Groups))
		for id := range reg.Groups {
			groupIDs = append(groupIDs, id)
		}
		groupID := groupIDs[s.rng.Intn(len(groupIDs))]

		arch := entities.MonsterArchetypes[s.rng.Intn(len(entities.MonsterArchetypes))]
		level := arch.Level + s.rng.Intn(levelOffsetRange)
		monster = scale(arch, level)
		monster.ID = s.idGen.Generate()
		monster.GroupID = groupID
		monster.SpawnTime = now.UnixMilli()

		reg.InsertMonster(monster)
	})

	return monster, monster != nil
}

// SweepExpired removes every monster whose lifetime has elapsed. The
// per-spawn timers only cover monsters this process spawned, so the
// sweep is what retires monsters restored from a snapshot.
func (s *Spawner) SweepExpired() {
	cutoff := s.clock.Now().UnixMilli() - Lifetime.Milliseconds()
	var overdue []*entities.Monster
	s.world.Update(func(reg *world.Registries) {
		for id, m := range reg.Monsters {
			if m.SpawnTime <= cutoff {
				reg.RemoveMonster(id)
				overdue = append(overdue, m)
			}
		}
	})
	for _, m := range overdue {
		s.announceEscape(m.ID, m.GroupID, m.Name, m.Level)
	}
}

// expire removes a monster that is still present after its lifetime.
// A monster defeated in combat was already removed and fires nothing.
func (s *Spawner) expire(id string, groupID int64, name string, level int) {
	removed := false
	s.world.Update(func(reg *world.Registries) {
		_, removed = reg.RemoveMonster(id)
	})
	if !removed {
		return
	}
	s.announceEscape(id, groupID, name, level)
}

func (s *Spawner) announceEscape(id string, groupID int64, name string, level int) {
	s.logger.Info("monster expired", zap.String("monster_id", id))
	text := fmt.Sprintf("👻 %s（Lv.%d）已经逃走了！", name, level)
	if err := s.sender.Send(context.Background(), groupID, text); err != nil {
		s.logger.Error("failed to announce expiry", zap.Error(err))
	}
}

// scale produces a monster whose stats are the archetype's scaled
// linearly by finalLevel / baseLevel.
func scale(arch entities.MonsterArchetype, level int) *entities.Monster {
	ratio := float64(level) / float64(arch.Level)
	return &entities.Monster{
		Name:      arch.Name,
		Level:     level,
		Health:    int(float64(arch.Health) * ratio),
		MaxHealth: int(float64(arch.Health) * ratio),
		Attack:    int(float64(arch.Attack) * ratio),
		Defense:   int(float64(arch.Defense) * ratio),
		GoldMin:   int(float64(arch.GoldMin) * ratio),
		GoldMax:   int(float64(arch.GoldMax) * ratio),
		Exp:       int(float64(arch.Exp) * ratio),
	}
}
