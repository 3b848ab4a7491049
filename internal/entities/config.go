package entities

// Group is a chat group the engine knows about. Monsters spawn into
// groups and world events fire at them.
type Group struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// GlobalConfig holds the persisted feature flags and tunables.
// Durations are milliseconds since the snapshot format predates this
// implementation.
type GlobalConfig struct {
	InvincibleMode       bool    `json:"invincibleMode"`
	LastMonsterSpawn     int64   `json:"lastMonsterSpawn"`
	MonsterSpawnInterval int64   `json:"monsterSpawnInterval"`
	PartyBonus           float64 `json:"partyBonus"`
	SkillCooldown        int64   `json:"skillCooldown"`
}

// DefaultGlobalConfig returns the documented defaults used when the
// snapshot is missing or malformed.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		InvincibleMode:       false,
		LastMonsterSpawn:     0,
		MonsterSpawnInterval: 30 * 60 * 1000,
		PartyBonus:           1.2,
		SkillCooldown:        5 * 60 * 1000,
	}
}
