package entities

// Clan name constraints and founding costs
const (
	ClanNameMinLen    = 2
	ClanNameMaxLen    = 20
	ClanFoundingLevel = 66
	ClanFoundingCost  = 5000
)

// Clan is a player-formed faction. The leader is always present in
// Members; membership order is preserved for stable war selection.
type Clan struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Level       int     `json:"level"`
	Leader      int64   `json:"leader"`
	Members     []int64 `json:"members"`
	Treasury    int     `json:"treasury"`
	Reputation  int     `json:"reputation"`
	LastWarTime int64   `json:"lastPkTime"`
	Created     int64   `json:"created"`
}

// NewClan constructs a level-1 clan founded by the given leader
func NewClan(id, name string, leader int64, nowMilli int64) *Clan {
	return &Clan{
		ID:      id,
		Name:    name,
		Level:   1,
		Leader:  leader,
		Members: []int64{leader},
		Created: nowMilli,
	}
}

// HasMember reports whether the given character belongs to the clan
func (c *Clan) HasMember(id int64) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy for persistence snapshots
func (c *Clan) Clone() *Clan {
	cp := *c
	cp.Members = append([]int64(nil), c.Members...)
	return &cp
}
