package world

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
)

// Snapshot is the serializable whole-world document. Map keys
// marshal as strings, matching the legacy data file layout.
type Snapshot struct {
	Users    map[int64]*entities.Character `json:"users"`
	Groups   map[int64]*entities.Group     `json:"groups"`
	Clans    map[string]*entities.Clan     `json:"clans"`
	Monsters map[string]*entities.Monster  `json:"monsters"`
	Config   entities.GlobalConfig         `json:"globalConfig"`
}

// NewSnapshot returns an empty snapshot with default config
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:    make(map[int64]*entities.Character),
		Groups:   make(map[int64]*entities.Group),
		Clans:    make(map[string]*entities.Clan),
		Monsters: make(map[string]*entities.Monster),
		Config:   entities.DefaultGlobalConfig(),
	}
}

// Snapshot deep-copies the world under the lock. The copy is safe to
// marshal and write after the lock is released.
func (s *State) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := NewSnapshot()
	snap.Config = *s.reg.Config
	for id, u := range s.reg.Users {
		snap.Users[id] = u.Clone()
	}
	for id, g := range s.reg.Groups {
		cp := *g
		snap.Groups[id] = &cp
	}
	for id, c := range s.reg.Clans {
		snap.Clans[id] = c.Clone()
	}
	for id, m := range s.reg.Monsters {
		snap.Monsters[id] = m.Clone()
	}
	return snap
}

// Restore replaces the world contents with the snapshot's. Nil maps in
// a partially-populated snapshot are tolerated.
func (s *State) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := snap.Config
	s.reg.Config = &cfg
	s.reg.Users = snap.Users
	if s.reg.Users == nil {
		s.reg.Users = make(map[int64]*entities.Character)
	}
	s.reg.Groups = snap.Groups
	if s.reg.Groups == nil {
		s.reg.Groups = make(map[int64]*entities.Group)
	}
	s.reg.Clans = snap.Clans
	if s.reg.Clans == nil {
		s.reg.Clans = make(map[string]*entities.Clan)
	}
	s.reg.Monsters = snap.Monsters
	if s.reg.Monsters == nil {
		s.reg.Monsters = make(map[string]*entities.Monster)
	}
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
