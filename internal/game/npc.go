package game

// NPC is a mob or conversational character occupying a room. Combat fields are
// mutated only while the NPC's entity lock is held; an NPC whose health
// reaches zero is removed from the world and does not respawn.
type NPC struct {
	ID        string
	Name      string
	Room      RoomID
	Health    int
	MaxHealth int
	Attack    int
	Defense   int
	Level     int
	Hostile   bool
	Greeting  string

	lk entityLock
}

func (n *NPC) lockID() string    { return "n:" + n.ID }
func (n *NPC) lock() *entityLock { return &n.lk }

// NPCSnapshot is a consistent copy of an NPC's visible state.
type NPCSnapshot struct {
	ID        string
	Name      string
	Room      RoomID
	Health    int
	MaxHealth int
	Attack    int
	Defense   int
	Level     int
	Hostile   bool
	Greeting  string
}

func (n *NPC) snapshotLocked() NPCSnapshot {
	return NPCSnapshot{
		ID:        n.ID,
		Name:      n.Name,
		Room:      n.Room,
		Health:    n.Health,
		MaxHealth: n.MaxHealth,
		Attack:    n.Attack,
		Defense:   n.Defense,
		Level:     n.Level,
		Hostile:   n.Hostile,
		Greeting:  n.Greeting,
	}
}
