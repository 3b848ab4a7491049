package dispatcher

import (
	"fmt"
	"strings"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/game/cooldown"
	"github.com/jianghu-rpg/jianghu-api/internal/orchestrators/game"
)

const helpText = `📜 江湖指南
/start - 踏入江湖
/me - 查看角色
/cultivate - 打坐修炼（每小时一次）
/daily - 领取每日奖励
/fight <怪物ID> - 挑战怪物
/use <武功> - 运功蓄势
/myskills - 查看武功
/learn <武功> - 参悟武学（机缘可遇不可求）
/pk <侠士> - 与人切磋（5分钟一次）
/createclan <名号> - 开宗立派
/joinclan <门派ID> - 拜入门派
/leaveclan - 退出门派
/clans - 门派名录
/clan_pk <门派ID> - 发起门派大战`

func formatProfile(out *game.ProfileOutput) string {
	c := out.Character
	var b strings.Builder
	fmt.Fprintf(&b, "🧝 %s【%s】\n", c.Name, c.Title)
	fmt.Fprintf(&b, "等级：%d（%d/%d）\n", c.Level, c.Exp, c.ExpToNextLevel)
	fmt.Fprintf(&b, "气血：%d/%d  内力：%d/%d\n", c.Health, c.MaxHealth, c.Spirit, c.MaxSpirit)
	fmt.Fprintf(&b, "攻击：%d  防御：%d  身法：%d\n", c.Attack, c.Defense, c.Speed)
	fmt.Fprintf(&b, "黄金：%d两\n", c.Gold)
	if out.ClanName != "" {
		fmt.Fprintf(&b, "门派：%s（%s）\n", out.ClanName, c.ClanRole)
	} else {
		b.WriteString("门派：无\n")
	}
	fmt.Fprintf(&b, "战绩：斩妖%d 诛魔%d 切磋%d胜%d负", c.MonsterKills, c.BossKills, c.PKWins, c.PKLosses)
	return b.String()
}

func formatSkillList(entries []game.SkillStatus) string {
	if len(entries) == 0 {
		return "你还未习得任何武功。"
	}
	var b strings.Builder
	b.WriteString("📖 已习得的武功：")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n「%s」%s", e.Skill.Name, e.Skill.Description)
		if !e.Ready {
			fmt.Fprintf(&b, "（调息中，还需%d分钟）", cooldown.Minutes(e.Remaining))
		}
	}
	return b.String()
}

func formatClanList(entries []game.ClanSummary) string {
	if len(entries) == 0 {
		return "江湖上尚无门派，使用 /createclan 开宗立派！"
	}
	var b strings.Builder
	b.WriteString("🏯 江湖门派名录：")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n「%s」掌门：%s  弟子：%d人  ID：%s", e.Name, e.LeaderName, e.Members, e.ID)
	}
	return b.String()
}

func formatDrop(item *entities.Equipment) string {
	var stats []string
	if item.Attack > 0 {
		stats = append(stats, fmt.Sprintf("攻击+%d", item.Attack))
	}
	if item.Defense > 0 {
		stats = append(stats, fmt.Sprintf("防御+%d", item.Defense))
	}
	return fmt.Sprintf("🎁 获得%s！%s（需求等级%d）", item.Name, strings.Join(stats, " "), item.LevelRequirement)
}

func formatLevelUp(up game.UserLevelUp) string {
	return fmt.Sprintf("🎉 恭喜%s突破至%d级！", up.Name, up.Level)
}

func formatEnlightenment(name string, skill entities.Skill) string {
	return fmt.Sprintf("🌟 %s行走江湖偶得奇遇，顿悟「%s」！\n%s", name, skill.Name, skill.Description)
}
