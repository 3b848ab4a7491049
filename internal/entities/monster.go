package entities

// Monster is a live spawned enemy. Stats are the archetype's scaled by
// the rolled level; gold rewards are drawn from [GoldMin, GoldMax].
type Monster struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	GoldMin   int    `json:"goldMin"`
	GoldMax   int    `json:"goldMax"`
	Exp       int    `json:"exp"`
	GroupID   int64  `json:"groupId"`
	SpawnTime int64  `json:"spawnTime"`
}

// Clone returns a copy for persistence snapshots
func (m *Monster) Clone() *Monster {
	cp := *m
	return &cp
}

// MonsterArchetype is a static spawn template
type MonsterArchetype struct {
	Name    string
	Level   int
	Health  int
	Attack  int
	Defense int
	GoldMin int
	GoldMax int
	Exp     int
}

// MonsterArchetypes is the fixed spawn table, weakest first
var MonsterArchetypes = []MonsterArchetype{
	{Name: "小喽啰", Level: 1, Health: 50, Attack: 5, Defense: 2, GoldMin: 5, GoldMax: 15, Exp: 10},
	{Name: "山贼", Level: 3, Health: 100, Attack: 10, Defense: 5, GoldMin: 10, GoldMax: 25, Exp: 20},
	{Name: "恶霸", Level: 5, Health: 200, Attack: 15, Defense: 8, GoldMin: 20, GoldMax: 40, Exp: 30},
	{Name: "武林败类", Level: 8, Health: 350, Attack: 25, Defense: 12, GoldMin: 30, GoldMax: 50, Exp: 50},
	{Name: "魔教弟子", Level: 12, Health: 500, Attack: 35, Defense: 18, GoldMin: 40, GoldMax: 60, Exp: 70},
	{Name: "江湖大盗", Level: 15, Health: 700, Attack: 45, Defense: 25, GoldMin: 50, GoldMax: 80, Exp: 100},
}

// BossLevel is the level at or above which a kill counts as a boss kill
const BossLevel = 15
