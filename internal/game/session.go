package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PlayerStore is the injected persistence collaborator. Load reports
// found=false for an unknown player; Save must either complete fully or leave
// the previously persisted state untouched.
type PlayerStore interface {
	Load(name string) (Profile, bool, error)
	Save(profile Profile) error
}

// Dispatcher executes a command line for a connected player.
// Returning true indicates the session should terminate.
type Dispatcher func(*World, *Player, string) bool

// Sessions binds transport connections to player entities. Both the telnet
// and websocket adapters drive the engine exclusively through Connect,
// SubmitCommand, and Disconnect, so game semantics are identical across
// transports.
type Sessions struct {
	world    *World
	store    PlayerStore
	dispatch Dispatcher
	log      *slog.Logger
}

func NewSessions(world *World, store PlayerStore, dispatch Dispatcher, log *slog.Logger) *Sessions {
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{world: world, store: store, dispatch: dispatch, log: log}
}

// World exposes the underlying world model to transport adapters that need
// read-only views (room rendering on join).
func (s *Sessions) World() *World { return s.world }

// Connect binds a freshly authenticated connection to a player entity,
// restoring the persisted profile when one exists. A load failure is logged
// and the session continues with a fresh in-memory profile.
func (s *Sessions) Connect(name string, isAdmin bool) (*Player, error) {
	var profile Profile
	if s.store != nil {
		loaded, found, err := s.store.Load(name)
		switch {
		case err != nil:
			s.log.Error("load player profile", "player", name, "error", err)
		case found:
			profile = loaded
		}
	}
	profile.Name = name

	p, err := s.world.AddPlayer(name, uuid.NewString(), isAdmin, profile)
	if err != nil {
		return nil, err
	}
	s.log.Info("session connected", "player", name, "session", p.SessionID, "room", p.Room)
	s.world.BroadcastToRoom(p.Room, Event{Kind: EventRoom, Text: fmt.Sprintf("%s appears.", name)}, p)
	return p, nil
}

// SubmitCommand runs one raw command line for the player. At most one command
// per player is in flight at a time; a second submission while one is
// processing is rejected with a transient busy notice. The boolean reports
// whether the session asked to terminate.
func (s *Sessions) SubmitCommand(p *Player, line string) bool {
	if p == nil || !p.Alive {
		return true
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		deliver(p, Failure("You are still acting. A moment, please."))
		return false
	}
	defer p.inFlight.Store(false)

	if !p.allowCommand(time.Now()) {
		deliver(p, Failure("You are sending commands too quickly. Please wait."))
		return false
	}
	return s.dispatch(s.world, p, line)
}

// Disconnect persists the player's state and retires it from the live world.
// Save failures are logged and must not corrupt the previously saved profile;
// the disconnect completes regardless.
func (s *Sessions) Disconnect(p *Player) {
	if p == nil {
		return
	}
	room := p.Room
	release, err := acquireAll(s.world.lockWait, p)
	var profile Profile
	if err == nil {
		profile = p.profileLocked()
		room = p.Room
		release()
	} else {
		profile = Profile{Name: p.Name, Room: p.Room}
	}

	s.world.BroadcastToRoom(room, Event{Kind: EventRoom, Text: fmt.Sprintf("%s leaves.", p.Name)}, p)
	if s.store != nil {
		if err := s.store.Save(profile); err != nil {
			s.log.Error("save player profile", "player", p.Name, "error", err)
		}
	}
	s.world.RemovePlayer(p.Name)
	s.log.Info("session disconnected", "player", p.Name, "session", p.SessionID)
}
