// Package world holds the authoritative mutable registries of
// characters, groups, clans, and live monsters.
//
// Concurrency model: the aggregate is guarded by a single mutex.
// A command handler or timer tick runs its entire read-validate-mutate
// sequence inside Update, so no other actor can observe intermediate
// state; persistence and notification I/O happen after the lock is
// released, against results captured inside the critical section.
package world

import (
	"sync"

	"github.com/jianghu-rpg/jianghu-api/internal/entities"
)

// State is the world aggregate. Access goes through Update or View.
type State struct {
	mu  sync.Mutex
	reg Registries
}

// Registries is the unlocked view handed to Update and View callbacks.
// Structural helpers live here; game-rule validation stays in callers.
type Registries struct {
	Users    map[int64]*entities.Character
	Groups   map[int64]*entities.Group
	Clans    map[string]*entities.Clan
	Monsters map[string]*entities.Monster
	Config   *entities.GlobalConfig
}

// New creates an empty world with default global config
func New() *State {
	cfg := entities.DefaultGlobalConfig()
	return &State{
		reg: Registries{
			Users:    make(map[int64]*entities.Character),
			Groups:   make(map[int64]*entities.Group),
			Clans:    make(map[string]*entities.Clan),
			Monsters: make(map[string]*entities.Monster),
			Config:   &cfg,
		},
	}
}

// Update runs fn with exclusive access to the registries
func (s *State) Update(fn func(reg *Registries)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.reg)
}

// UpdateErr runs fn with exclusive access and propagates its error
func (s *State) UpdateErr(fn func(reg *Registries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.reg)
}

// View is Update under another name, for callers that only read
func (s *State) View(fn func(reg *Registries)) {
	s.Update(fn)
}

// GetOrCreateUser returns the character for an identity, constructing
// it with starting stats if absent. Atomic with respect to Update.
func (s *State) GetOrCreateUser(id int64, name string, nowMilli int64) (c *entities.Character, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.GetOrCreateUser(id, name, nowMilli)
}

// GetOrCreateUser is the registry-level variant for use inside Update
func (r *Registries) GetOrCreateUser(id int64, name string, nowMilli int64) (*entities.Character, bool) {
	if c, ok := r.Users[id]; ok {
		return c, false
	}
	c := entities.NewCharacter(id, name, nowMilli)
	r.Users[id] = c
	return c, true
}

// TouchGroup records a group the engine has seen
func (r *Registries) TouchGroup(id int64, title string) {
	if _, ok := r.Groups[id]; !ok {
		r.Groups[id] = &entities.Group{ID: id, Title: title}
	}
}

// FindUserByName returns the first character whose display name
// contains the query, or whose ID matches it exactly.
func (r *Registries) FindUserByName(query string) (*entities.Character, bool) {
	ids := make([]int64, 0, len(r.Users))
	for id := range r.Users {
		ids = append(ids, id)
	}
	// Deterministic iteration so lookups are stable
	sortInt64s(ids)
	for _, id := range ids {
		u := r.Users[id]
		if u.Name == query || formatID(u.ID) == query {
			return u, true
		}
	}
	for _, id := range ids {
		u := r.Users[id]
		if containsFold(u.Name, query) {
			return u, true
		}
	}
	return nil, false
}

// AddClanMember appends a member to the clan's list and stamps the
// character's membership. Callers validate game rules first.
func (r *Registries) AddClanMember(clan *entities.Clan, c *entities.Character, role string) {
	if !clan.HasMember(c.ID) {
		clan.Members = append(clan.Members, c.ID)
	}
	c.ClanID = clan.ID
	c.ClanRole = role
}

// RemoveClanMember removes a member from the clan's list and clears
// the character's membership.
func (r *Registries) RemoveClanMember(clan *entities.Clan, c *entities.Character) {
	for i, m := range clan.Members {
		if m == c.ID {
			clan.Members = append(clan.Members[:i], clan.Members[i+1:]...)
			break
		}
	}
	c.ClanID = ""
	c.ClanRole = entities.RoleNone
}

// ClanByName returns the clan with the exact name, if any
func (r *Registries) ClanByName(name string) (*entities.Clan, bool) {
	for _, clan := range r.Clans {
		if clan.Name == name {
			return clan, true
		}
	}
	return nil, false
}

// InsertMonster registers a live monster
func (r *Registries) InsertMonster(m *entities.Monster) {
	r.Monsters[m.ID] = m
}

// RemoveMonster deletes a monster if present, reporting whether it was
func (r *Registries) RemoveMonster(id string) (*entities.Monster, bool) {
	m, ok := r.Monsters[id]
	if ok {
		delete(r.Monsters, id)
	}
	return m, ok
}
