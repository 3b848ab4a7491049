package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/jianghu-rpg/jianghu-api/internal/orchestrators/game"
)

func (d *Dispatcher) handleStart(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Start(ctx, &game.StartInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	if !out.Created {
		return []reply{{msg.ChatID, fmt.Sprintf("%s，你早已行走江湖。使用 /me 查看状态。", out.Character.Name)}}, nil
	}
	text := fmt.Sprintf(
		"🗡️ 欢迎踏入江湖，%s！\n你已习得「独孤九剑」，身怀%d两黄金。\n使用 /help 查看行走江湖的招式。",
		out.Character.Name, out.Character.Gold)
	return []reply{{msg.ChatID, text}}, nil
}

func (d *Dispatcher) handleProfile(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Profile(ctx, &game.ProfileInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, formatProfile(out)}}, nil
}

func (d *Dispatcher) handleCultivate(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Cultivate(ctx, &game.CultivateInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	replies := []reply{{msg.ChatID, fmt.Sprintf(
		"🧘 修炼完毕！恢复%d点气血，内力已满，获得%d点经验。\n当前气血：%d/%d",
		out.Recovered, out.ExpGained, out.Character.Health, out.Character.MaxHealth)}}
	return appendLevelUps(replies, msg.ChatID, out.LevelUps), nil
}

func (d *Dispatcher) handleDaily(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Daily(ctx, &game.DailyInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	replies := []reply{{msg.ChatID, fmt.Sprintf("🧧 今日奖励：黄金+%d，经验+%d！", out.Gold, out.Exp)}}
	return appendLevelUps(replies, msg.ChatID, out.LevelUps), nil
}

func (d *Dispatcher) handleFight(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Fight(ctx, &game.FightInput{Actor: d.actor(msg), MonsterID: arg})
	if err != nil {
		return nil, err
	}
	replies := []reply{{msg.ChatID, strings.Join(out.Log, "\n")}}
	switch {
	case out.Won:
		text := fmt.Sprintf("🎉 你击败了%s（Lv.%d）！获得黄金%d两、经验%d点。", out.MonsterName, out.MonsterLevel, out.Gold, out.Exp)
		if out.BossKill {
			text += "\n👑 此乃一方霸主，威名远扬！"
		}
		if out.Drop != nil {
			text += "\n" + formatDrop(out.Drop)
		}
		replies = append(replies, reply{msg.ChatID, text})
	case out.Draw:
		replies = append(replies, reply{msg.ChatID, fmt.Sprintf("⚖️ 你与%s激战多时，难分胜负，各自退去。", out.MonsterName)})
	default:
		replies = append(replies, reply{msg.ChatID, fmt.Sprintf("💔 你不敌%s，负伤而逃。回去养精蓄锐吧！", out.MonsterName)})
	}
	return appendLevelUps(replies, msg.ChatID, out.LevelUps), nil
}

func (d *Dispatcher) handleUseSkill(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.UseSkill(ctx, &game.UseSkillInput{Actor: d.actor(msg), SkillName: arg})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, fmt.Sprintf("✨ 你已运起「%s」，下次交手时发动！\n%s", out.Skill.Name, out.Skill.Description)}}, nil
}

func (d *Dispatcher) handleMySkills(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.MySkills(ctx, &game.MySkillsInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, formatSkillList(out.Entries)}}, nil
}

func (d *Dispatcher) handlePK(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.PK(ctx, &game.PKInput{Actor: d.actor(msg), Target: arg})
	if err != nil {
		return nil, err
	}
	replies := []reply{{msg.ChatID, strings.Join(out.Log, "\n")}}
	if out.Draw {
		replies = append(replies, reply{msg.ChatID, fmt.Sprintf("⚖️ %s与%s大战一场，难分高下！", out.Challenger.Name, out.Opponent.Name)})
		return replies, nil
	}
	text := fmt.Sprintf("🏆 %s技高一筹，击败了%s！\n获得黄金%d两、内力%d点、经验%d点；%s折损%d点经验。",
		out.Winner.Name, out.Loser.Name, game.PKWinnerGold, game.PKWinnerSpirit, game.PKWinnerExp, out.Loser.Name, game.PKLoserExpLoss)
	if out.Drop != nil {
		text += "\n" + formatDrop(out.Drop)
	}
	replies = append(replies, reply{msg.ChatID, text})
	return appendLevelUps(replies, msg.ChatID, out.LevelUps), nil
}

func (d *Dispatcher) handleCreateClan(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.CreateClan(ctx, &game.CreateClanInput{Actor: d.actor(msg), Name: arg})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, fmt.Sprintf("🏯 门派「%s」开山立户！\n门派ID：%s\n弟子可用 /joinclan %s 拜入门下。",
		out.Clan.Name, out.Clan.ID, out.Clan.ID)}}, nil
}

func (d *Dispatcher) handleJoinClan(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.JoinClan(ctx, &game.JoinClanInput{Actor: d.actor(msg), ClanID: arg})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, fmt.Sprintf("⛩️ %s拜入「%s」门下！当前门派共%d人。", msg.UserName, out.Clan.Name, len(out.Clan.Members))}}, nil
}

func (d *Dispatcher) handleLeaveClan(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.LeaveClan(ctx, &game.LeaveClanInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, fmt.Sprintf("🍂 你已离开「%s」，从此相忘于江湖。", out.ClanName)}}, nil
}

func (d *Dispatcher) handleListClans(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.ListClans(ctx, &game.ListClansInput{})
	if err != nil {
		return nil, err
	}
	return []reply{{msg.ChatID, formatClanList(out.Entries)}}, nil
}

func (d *Dispatcher) handleClanWar(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.ClanWar(ctx, &game.ClanWarInput{Actor: d.actor(msg), TargetClanID: arg})
	if err != nil {
		return nil, err
	}
	replies := []reply{{msg.ChatID, strings.Join(out.Log, "\n")}}
	if !out.Draw {
		replies = append(replies, reply{msg.ChatID, fmt.Sprintf(
			"🏯「%s」大获全胜，门下弟子皆有封赏；「%s」弟子折损经验。", out.WinnerName, out.LoserName)})
	}
	// Loot goes to each member's own chat
	for _, drop := range out.Drops {
		replies = append(replies, reply{drop.UserID, formatDrop(drop.Item)})
	}
	return appendLevelUps(replies, msg.ChatID, out.LevelUps), nil
}

// handleLearn rolls the rare spontaneous-enlightenment chance. The
// named technique is flavor only; a successful roll grants a random
// unknown skill, and a failed roll says nothing.
func (d *Dispatcher) handleLearn(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Learn(ctx, &game.LearnInput{Actor: d.actor(msg)})
	if err != nil {
		return nil, err
	}
	if !out.Learned {
		return nil, nil
	}
	return []reply{{msg.ChatID, formatEnlightenment(msg.UserName, out.Skill)}}, nil
}

func (d *Dispatcher) handleAdmin(ctx context.Context, msg Message, arg string) ([]reply, error) {
	out, err := d.service.Admin(ctx, &game.AdminInput{Actor: d.actor(msg), Subcommand: arg})
	if err != nil {
		return nil, err
	}
	if !out.Known {
		return []reply{{msg.ChatID, "未知的管理指令。"}}, nil
	}
	if out.Invincible {
		return []reply{{msg.ChatID, "🛡️ 无敌模式已开启。"}}, nil
	}
	return []reply{{msg.ChatID, "🛡️ 无敌模式已关闭。"}}, nil
}

func (d *Dispatcher) handleHelp(ctx context.Context, msg Message, arg string) ([]reply, error) {
	return []reply{{msg.ChatID, helpText}}, nil
}

func appendLevelUps(replies []reply, chatID int64, ups []game.UserLevelUp) []reply {
	for _, up := range ups {
		replies = append(replies, reply{chatID, formatLevelUp(up)})
	}
	return replies
}
