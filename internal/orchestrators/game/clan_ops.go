package game

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/game/cooldown"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

// CreateClan founds a new clan with the actor as leader. Founding
// requires level 66 and 5000 gold; checks run before any gold moves.
func (o *Orchestrator) CreateClan(ctx context.Context, input *CreateClanInput) (*CreateClanOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name := strings.TrimSpace(input.Name)
	out := &CreateClanOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		if c.ClanID != "" {
			return errors.FailedPrecondition("你已身在门派，请先退出！")
		}
		if c.Level < entities.ClanFoundingLevel {
			return errors.FailedPreconditionf("创建门派需达到%d级，你当前等级：%d", entities.ClanFoundingLevel, c.Level)
		}
		if c.Gold < entities.ClanFoundingCost {
			return errors.FailedPreconditionf("创建门派需要%d两黄金，你只有%d两！", entities.ClanFoundingCost, c.Gold)
		}
		if n := runeCount(name); n < entities.ClanNameMinLen || n > entities.ClanNameMaxLen {
			return errors.InvalidArgumentf("门派名称需为%d至%d个字！", entities.ClanNameMinLen, entities.ClanNameMaxLen)
		}
		if _, exists := reg.ClanByName(name); exists {
			return errors.AlreadyExists("已有同名门派，请另取名号！")
		}

		clan := entities.NewClan(o.clanIDs.Generate(), name, c.ID, o.gate.NowMilli())
		reg.Clans[clan.ID] = clan
		c.Gold -= entities.ClanFoundingCost
		c.ClanID = clan.ID
		c.ClanRole = entities.RoleLeader

		out.Clan = clan.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// JoinClan adds the actor to an existing clan as an ordinary member
func (o *Orchestrator) JoinClan(ctx context.Context, input *JoinClanInput) (*JoinClanOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	clanID := strings.TrimSpace(input.ClanID)
	if clanID == "" {
		return nil, errors.InvalidArgument("请指定门派ID，使用 /clans 查看！")
	}
	out := &JoinClanOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		if c.ClanID != "" {
			return errors.FailedPrecondition("你已身在门派，请先退出！")
		}
		clan, ok := reg.Clans[clanID]
		if !ok {
			return errors.NotFound("该门派不存在，请检查门派ID！")
		}
		reg.AddClanMember(clan, c, entities.RoleMember)
		out.Clan = clan.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// LeaveClan removes the actor from their clan
func (o *Orchestrator) LeaveClan(ctx context.Context, input *LeaveClanInput) (*LeaveClanOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out := &LeaveClanOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		clan, ok := reg.Clans[c.ClanID]
		if !ok {
			return errors.FailedPrecondition("你尚未加入任何门派！")
		}
		reg.RemoveClanMember(clan, c)
		out.ClanName = clan.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}

// ListClans lists every clan, oldest first
func (o *Orchestrator) ListClans(ctx context.Context, input *ListClansInput) (*ListClansOutput, error) {
	out := &ListClansOutput{}
	o.world.View(func(reg *world.Registries) {
		for _, clan := range reg.Clans {
			entry := ClanSummary{
				ID:      clan.ID,
				Name:    clan.Name,
				Members: len(clan.Members),
			}
			if leader, ok := reg.Users[clan.Leader]; ok {
				entry.LeaderName = leader.Name
			}
			out.Entries = append(out.Entries, entry)
		}
		created := make(map[string]int64, len(reg.Clans))
		for id, clan := range reg.Clans {
			created[id] = clan.Created
		}
		sort.SliceStable(out.Entries, func(i, j int) bool {
			a, b := out.Entries[i], out.Entries[j]
			if created[a.ID] != created[b.ID] {
				return created[a.ID] < created[b.ID]
			}
			return a.ID < b.ID
		})
	})
	return out, nil
}

// ClanWar starts a war between the actor's clan and a target clan.
// Only the attacking clan's war cooldown is checked.
func (o *Orchestrator) ClanWar(ctx context.Context, input *ClanWarInput) (*ClanWarOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	targetID := strings.TrimSpace(input.TargetClanID)
	if targetID == "" {
		return nil, errors.InvalidArgument("请指定目标门派ID，使用 /clans 查看！")
	}
	out := &ClanWarOutput{}
	err := o.world.UpdateErr(func(reg *world.Registries) error {
		c, err := requireUser(reg, input.Actor)
		if err != nil {
			return err
		}
		mine, ok := reg.Clans[c.ClanID]
		if !ok {
			return errors.FailedPrecondition("你尚未加入门派！")
		}
		target, ok := reg.Clans[targetID]
		if !ok {
			return errors.NotFound("目标门派不存在！")
		}
		if target.ID == mine.ID {
			return errors.InvalidArgument("不能挑战自己的门派！")
		}
		st := o.gate.Check(mine.LastWarTime, cooldown.ClanWar)
		if !st.Allowed {
			return errors.CooldownActive(
				fmt.Sprintf("门派大战冷却中，还需%d分钟！", cooldown.Minutes(st.Remaining)),
				st.Remaining)
		}

		outcome, err := o.clanWars.Run(reg, mine, target)
		if err != nil {
			return err
		}

		out.Log = outcome.Log
		if outcome.Winner == nil {
			out.Draw = true
			return nil
		}
		out.WinnerName = outcome.Winner.Name
		out.LoserName = outcome.Loser.Name
		for _, reward := range outcome.Rewards {
			member, ok := reg.Users[reward.UserID]
			if !ok {
				continue
			}
			if reward.Drop != nil {
				out.Drops = append(out.Drops, MemberDrop{UserID: reward.UserID, Item: reward.Drop})
			}
			out.LevelUps = append(out.LevelUps, toUserLevelUps(member, reward.LevelUps)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.persist(ctx)
	return out, nil
}
