package game

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
	loadErr  error
	saveErr  error
	saved    []Profile
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]Profile{}}
}

func (s *fakeStore) Load(name string) (Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return Profile{}, false, s.loadErr
	}
	p, ok := s.profiles[name]
	return p, ok, nil
}

func (s *fakeStore) Save(profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, profile)
	s.profiles[profile.Name] = profile
	return nil
}

func testSessions(t *testing.T, store PlayerStore, dispatch Dispatcher) *Sessions {
	t.Helper()
	if dispatch == nil {
		dispatch = func(*World, *Player, string) bool { return false }
	}
	return NewSessions(testWorld(t), store, dispatch, nil)
}

func TestConnectRestoresProfile(t *testing.T) {
	store := newFakeStore()
	store.profiles["Ada"] = Profile{
		Name:       "Ada",
		Room:       "lane",
		Health:     42,
		MaxHealth:  90,
		Mana:       30,
		MaxMana:    60,
		Attack:     7,
		Defense:    5,
		Level:      2,
		Experience: 150,
		Inventory:  []string{"lantern"},
		Spells:     []string{"fireball"},
	}
	sessions := testSessions(t, store, nil)

	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if p.Room != RoomID("lane") {
		t.Fatalf("room = %q, want %q", p.Room, "lane")
	}
	if p.Health != 42 || p.Level != 2 || p.Experience != 150 {
		t.Fatalf("profile not restored: hp=%d level=%d xp=%d", p.Health, p.Level, p.Experience)
	}
	if _, known := p.Spellbook["fireball"]; !known {
		t.Fatalf("spellbook not restored: %v", p.Spellbook)
	}
}

func TestConnectFreshPlayerOnLoadError(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("backend down")
	sessions := testSessions(t, store, nil)

	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if p.Room != sessions.World().StartRoom() {
		t.Fatalf("room = %q, want start room", p.Room)
	}
	if p.Health != p.MaxHealth || p.Level != 1 {
		t.Fatalf("fresh stats expected, got hp=%d/%d level=%d", p.Health, p.MaxHealth, p.Level)
	}
}

func TestConnectRejectsSecondSession(t *testing.T) {
	sessions := testSessions(t, newFakeStore(), nil)

	if _, err := sessions.Connect("Ada", false); err != nil {
		t.Fatalf("first Connect: %v", err)
	}
	if _, err := sessions.Connect("Ada", false); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("second Connect error = %v, want ErrAlreadyConnected", err)
	}
}

func TestConnectAnnouncesArrival(t *testing.T) {
	sessions := testSessions(t, newFakeStore(), nil)
	watcher, err := sessions.Connect("Bob", false)
	if err != nil {
		t.Fatalf("Connect(Bob): %v", err)
	}
	drainOutput(watcher)

	if _, err := sessions.Connect("Ada", false); err != nil {
		t.Fatalf("Connect(Ada): %v", err)
	}
	select {
	case ev := <-watcher.Output:
		if !strings.Contains(ev.Text, "Ada appears.") {
			t.Fatalf("broadcast = %q, want arrival notice", ev.Text)
		}
	default:
		t.Fatalf("no arrival broadcast delivered")
	}
}

func TestSubmitCommandDispatches(t *testing.T) {
	var gotLine string
	dispatch := func(w *World, p *Player, line string) bool {
		gotLine = line
		return line == "quit"
	}
	sessions := testSessions(t, newFakeStore(), dispatch)
	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if done := sessions.SubmitCommand(p, "look"); done {
		t.Fatalf("SubmitCommand(look) reported terminate")
	}
	if gotLine != "look" {
		t.Fatalf("dispatched line = %q, want %q", gotLine, "look")
	}
	if done := sessions.SubmitCommand(p, "quit"); !done {
		t.Fatalf("SubmitCommand(quit) did not report terminate")
	}
}

func TestSubmitCommandRejectsWhileBusy(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	dispatch := func(w *World, p *Player, line string) bool {
		close(started)
		<-block
		return false
	}
	sessions := testSessions(t, newFakeStore(), dispatch)
	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	drainOutput(p)

	go sessions.SubmitCommand(p, "cast inferno")
	<-started

	if done := sessions.SubmitCommand(p, "look"); done {
		t.Fatalf("busy rejection reported terminate")
	}
	select {
	case ev := <-p.Output:
		if ev.Kind != EventError || !strings.Contains(ev.Text, "still acting") {
			t.Fatalf("busy notice = %+v", ev)
		}
	default:
		t.Fatalf("no busy notice delivered")
	}
	close(block)
}

func TestSubmitCommandDeadSession(t *testing.T) {
	sessions := testSessions(t, newFakeStore(), nil)
	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sessions.Disconnect(p)

	if done := sessions.SubmitCommand(p, "look"); !done {
		t.Fatalf("command on retired session should terminate")
	}
}

func TestDisconnectSavesProfile(t *testing.T) {
	store := newFakeStore()
	sessions := testSessions(t, store, nil)
	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := sessions.World().MoveToRoom(p, "lane"); err != nil {
		t.Fatalf("MoveToRoom: %v", err)
	}

	sessions.Disconnect(p)

	if len(store.saved) != 1 {
		t.Fatalf("saved %d profiles, want 1", len(store.saved))
	}
	got := store.saved[0]
	if got.Name != "Ada" || got.Room != "lane" {
		t.Fatalf("saved profile = %+v", got)
	}
	if _, online := sessions.World().ActivePlayer("Ada"); online {
		t.Fatalf("player still active after disconnect")
	}
}

func TestDisconnectSurvivesSaveError(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	sessions := testSessions(t, store, nil)
	p, err := sessions.Connect("Ada", false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	sessions.Disconnect(p)

	if _, online := sessions.World().ActivePlayer("Ada"); online {
		t.Fatalf("player still active after failed save")
	}
}

func drainOutput(p *Player) {
	for {
		select {
		case <-p.Output:
		default:
			return
		}
	}
}
