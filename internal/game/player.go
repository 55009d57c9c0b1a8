package game

import (
	"sort"
	"sync/atomic"
	"time"
)

// Player represents a connected adventurer in the world.
//
// Gameplay fields (Room, Health, Mana, Inventory, Spellbook, stats) are
// mutated only while the player's entity lock is held. Membership in the
// world's registries is guarded separately by the world's registry mutex.
type Player struct {
	Name      string
	SessionID string
	Room      RoomID
	Output    chan Event
	Alive     bool
	IsAdmin   bool

	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Attack     int
	Defense    int
	Level      int
	Experience int

	Inventory []string
	Spellbook map[string]struct{}

	// done is closed when the player is retired from the world. Output is
	// never closed, so a send through a stale pointer stays a harmless drop.
	done chan struct{}

	lk       entityLock
	inFlight atomic.Bool
	history  []time.Time
}

// Done reports session retirement to transport writer goroutines.
func (p *Player) Done() <-chan struct{} { return p.done }

func (p *Player) lockID() string    { return "p:" + p.Name }
func (p *Player) lock() *entityLock { return &p.lk }

// Profile captures the persistent slice of a player, exchanged with a
// PlayerStore at connect and disconnect.
type Profile struct {
	Name       string   `json:"name"`
	Room       RoomID   `json:"room"`
	Health     int      `json:"health"`
	MaxHealth  int      `json:"max_health"`
	Mana       int      `json:"mana"`
	MaxMana    int      `json:"max_mana"`
	Attack     int      `json:"attack"`
	Defense    int      `json:"defense"`
	Level      int      `json:"level"`
	Experience int      `json:"experience"`
	Inventory  []string `json:"inventory,omitempty"`
	Spells     []string `json:"spells,omitempty"`
}

const (
	commandLimit  = 5
	commandWindow = time.Second
)

func (p *Player) allowCommand(now time.Time) bool {
	cutoff := now.Add(-commandWindow)
	filtered := p.history[:0]
	for _, t := range p.history {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	p.history = filtered
	if len(p.history) >= commandLimit {
		return false
	}
	p.history = append(p.history, now)
	return true
}

// ensureStatsLocked backfills derived stats for a freshly created or restored
// player. Caller holds the player lock or has exclusive access.
func (p *Player) ensureStatsLocked() {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.MaxHealth <= 0 {
		p.MaxHealth = 80 + (p.Level-1)*10
	}
	if p.Health <= 0 || p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	if p.MaxMana <= 0 {
		p.MaxMana = 50 + (p.Level-1)*10
	}
	if p.Mana < 0 || p.Mana > p.MaxMana {
		p.Mana = p.MaxMana
	}
	if p.Attack <= 0 {
		p.Attack = 5 + (p.Level-1)*2
	}
	if p.Defense <= 0 {
		p.Defense = 3 + (p.Level-1)*2
	}
	if p.Spellbook == nil {
		p.Spellbook = make(map[string]struct{})
	}
}

// gainExperienceLocked awards experience and applies any level gains,
// returning the number of levels gained. Caller holds the player lock.
func (p *Player) gainExperienceLocked(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.Experience += amount
	levels := 0
	for p.Experience >= p.Level*100 {
		p.Experience -= p.Level * 100
		p.Level++
		levels++
		p.MaxHealth += 10
		p.MaxMana += 10
		p.Attack += 2
		p.Defense += 2
		p.Health = p.MaxHealth
		p.Mana = p.MaxMana
	}
	return levels
}

// PlayerSnapshot is a consistent copy of a player's visible state, used to
// build responses without holding locks across I/O.
type PlayerSnapshot struct {
	Name       string
	Room       RoomID
	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Attack     int
	Defense    int
	Level      int
	Experience int
	Inventory  []string
	Spells     []string
}

func (p *Player) snapshotLocked() PlayerSnapshot {
	inv := make([]string, len(p.Inventory))
	copy(inv, p.Inventory)
	spells := make([]string, 0, len(p.Spellbook))
	for name := range p.Spellbook {
		spells = append(spells, name)
	}
	sort.Strings(spells)
	return PlayerSnapshot{
		Name:       p.Name,
		Room:       p.Room,
		Health:     p.Health,
		MaxHealth:  p.MaxHealth,
		Mana:       p.Mana,
		MaxMana:    p.MaxMana,
		Attack:     p.Attack,
		Defense:    p.Defense,
		Level:      p.Level,
		Experience: p.Experience,
		Inventory:  inv,
		Spells:     spells,
	}
}

// Snapshot takes the player's lock briefly and returns a consistent copy. If
// the lock stays contended past the wait budget a best-effort copy is
// returned; callers use snapshots for display only.
func (p *Player) Snapshot() PlayerSnapshot {
	if p.lk.acquire(DefaultLockWait) {
		defer p.lk.release()
	}
	return p.snapshotLocked()
}

func (p *Player) profileLocked() Profile {
	snap := p.snapshotLocked()
	return Profile{
		Name:       snap.Name,
		Room:       snap.Room,
		Health:     snap.Health,
		MaxHealth:  snap.MaxHealth,
		Mana:       snap.Mana,
		MaxMana:    snap.MaxMana,
		Attack:     snap.Attack,
		Defense:    snap.Defense,
		Level:      snap.Level,
		Experience: snap.Experience,
		Inventory:  snap.Inventory,
		Spells:     snap.Spells,
	}
}
