// Package combat implements the turn-based bout resolver. Resolution
// operates on combatant snapshots and is deterministic for a fixed
// random sequence, so bouts can be replayed in tests.
package combat

import (
	"fmt"
	"math"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/rng"
)

// MaxRounds bounds every bout; both sides alive afterwards is a draw
const MaxRounds = 20

// critThreshold is the damage above which a critical annotation may be
// rolled. The annotation is narrative only and does not modify damage.
const critThreshold = 15

// Side identifies a bout participant
type Side int

// Bout sides
const (
	SideNone Side = iota
	SideA
	SideB
)

// Combatant is a snapshot of one side. Mutations during resolution
// never touch live world state.
type Combatant struct {
	Name        string
	Health      int
	Attack      int
	Defense     int
	ActiveSkill int
}

// Result is the outcome of one bout. A and B carry the post-bout
// snapshots (health may be negative internally; the log clamps at 0)
// including consumed prepared-skill state for the caller to commit.
type Result struct {
	Winner Side
	Rounds int
	Log    []string
	A      Combatant
	B      Combatant
}

// Resolver runs bouts against an injected random source
type Resolver struct {
	rng rng.Roller
}

// NewResolver creates a resolver drawing from the given source
func NewResolver(r rng.Roller) *Resolver {
	return &Resolver{rng: r}
}

var skillNarrations = map[int]string{
	entities.SkillSwordArt:  "使出独孤九剑，剑光如虹直刺对方要害！",
	entities.SkillGoldBell:  "运起金钟罩，周身泛起金色罡气！",
	entities.SkillCloudStep: "脚踏凌波微步，身形飘忽难以捉摸！",
}

var attackActions = []string{
	"一拳挥出，带起呼呼风声！",
	"飞身跃起，猛踢对方胸口！",
	"欺身近前，一掌拍向对方肩头！",
	"侧身闪进，肘击直取要害！",
}

var dodgeActions = []string{
	"身形一晃，堪堪避开这一击！",
	"脚下轻灵，从容错身让过！",
	"矮身急退，攻势落了个空！",
}

var criticalHits = []string{
	"🔥 会心一击！伤害翻倍！",
	"💫 招式精妙，直击破绽！",
	"🌟 气贯长虹，威力惊人！",
}

var specialEffects = []string{
	"🌪️ 劲风四起，飞沙走石！",
	"💧 水滴飞溅，寒气逼人！",
	"⚡ 电光火石，瞬息万变！",
	"🌩️ 雷鸣电闪，声势骇人！",
}

// Resolve simulates a bout between a and b, a striking first. Roles
// swap every round so each side acts on alternating rounds.
func (r *Resolver) Resolve(a, b Combatant) *Result {
	res := &Result{}
	attacker, defender := &a, &b

	round := 1
	for ; round <= MaxRounds && a.Health > 0 && b.Health > 0; round++ {
		res.Log = append(res.Log, fmt.Sprintf("第%d回合：", round))

		if r.rng.Float64() > 0.5 {
			res.Log = append(res.Log, specialEffects[r.rng.Intn(len(specialEffects))])
		}

		if attacker.ActiveSkill != 0 {
			r.skillTurn(res, attacker, defender)
		} else {
			r.plainTurn(res, attacker, defender)
		}

		res.Log = append(res.Log, fmt.Sprintf(
			"「%s」剩余生命: %d | 「%s」剩余生命: %d",
			a.Name, clampDisplay(a.Health), b.Name, clampDisplay(b.Health)))

		attacker, defender = defender, attacker
	}
	res.Rounds = round - 1

	switch {
	case a.Health <= 0:
		res.Winner = SideB
	case b.Health <= 0:
		res.Winner = SideA
	default:
		res.Winner = SideNone
	}
	res.A, res.B = a, b
	return res
}

// skillTurn plays out an attacker with a prepared skill. Only the
// damage-multiplier skill strikes on its owner's turn; the defense and
// dodge skills announce themselves and stay prepared until triggered
// on an incoming hit.
func (r *Resolver) skillTurn(res *Result, attacker, defender *Combatant) {
	skill, ok := entities.Skills[attacker.ActiveSkill]
	if !ok {
		attacker.ActiveSkill = 0
		return
	}

	res.Log = append(res.Log, fmt.Sprintf("🗡️「%s」%s", attacker.Name, skillNarrations[skill.ID]))

	if skill.DamageMultiplier > 0 {
		damage := maxInt(1, int(math.Floor(
			float64(attacker.Attack)*skill.DamageMultiplier-float64(defender.Defense))))
		defender.Health -= damage
		res.Log = append(res.Log, fmt.Sprintf("💥 造成 %d 点伤害！", damage))
		r.maybeCrit(res, damage)
		attacker.ActiveSkill = 0
	}
}

// plainTurn plays out an unskilled attack, honoring the defender's
// prepared dodge or defense skill.
func (r *Resolver) plainTurn(res *Result, attacker, defender *Combatant) {
	res.Log = append(res.Log, fmt.Sprintf("👊「%s」%s", attacker.Name, attackActions[r.rng.Intn(len(attackActions))]))

	if defSkill, ok := entities.Skills[defender.ActiveSkill]; ok && defSkill.Dodge {
		res.Log = append(res.Log, fmt.Sprintf("🌀「%s」%s", defender.Name, dodgeActions[r.rng.Intn(len(dodgeActions))]))
		counter := maxInt(1, int(math.Floor(float64(defender.Attack)*0.8-float64(attacker.Defense))))
		attacker.Health -= counter
		res.Log = append(res.Log, fmt.Sprintf("💥 反击造成 %d 点伤害！", counter))
		r.maybeCrit(res, counter)
		defender.ActiveSkill = 0
		return
	}

	defMult := 1.0
	if defSkill, ok := entities.Skills[defender.ActiveSkill]; ok && defSkill.DefenseMultiplier > 0 {
		defMult = defSkill.DefenseMultiplier
	}
	damage := maxInt(1, int(math.Floor(float64(attacker.Attack)-float64(defender.Defense)*defMult)))
	defender.Health -= damage
	res.Log = append(res.Log, fmt.Sprintf("💥 造成 %d 点伤害！", damage))
	r.maybeCrit(res, damage)
}

// maybeCrit rolls the cosmetic critical annotation
func (r *Resolver) maybeCrit(res *Result, damage int) {
	if damage > critThreshold && r.rng.Float64() > 0.7 {
		res.Log = append(res.Log, criticalHits[r.rng.Intn(len(criticalHits))])
	}
}

func clampDisplay(health int) int {
	if health < 0 {
		return 0
	}
	return health
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
