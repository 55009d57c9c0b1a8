package game

import (
	"fmt"
	"sort"
	"strings"
)

// The definition structs mirror the declarative world content files. Reading
// and schema-validating the raw files lives in internal/config; LoadWorld
// consumes the already-parsed definitions and enforces the semantic
// invariants, fatally, before the server accepts any connection.

type RoomDef struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits,omitempty"`
	Items       []string          `json:"items,omitempty"`
}

type NPCDef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Room     string `json:"room"`
	Health   int    `json:"health"`
	Attack   int    `json:"attack"`
	Defense  int    `json:"defense"`
	Level    int    `json:"level,omitempty"`
	Hostile  bool   `json:"hostile,omitempty"`
	Greeting string `json:"greeting,omitempty"`
}

type SpellDef struct {
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	ManaCost         int     `json:"mana_cost"`
	Type             string  `json:"spell_type"`
	RequiresTarget   bool    `json:"requires_target,omitempty"`
	DamageMultiplier float64 `json:"damage_multiplier"`
	BaseDamage       [2]int  `json:"base_damage"`
}

// WorldContent bundles every parsed definition needed to build a world.
type WorldContent struct {
	StartRoom string     `json:"start_room"`
	Rooms     []RoomDef  `json:"rooms"`
	Items     []ItemDef  `json:"items,omitempty"`
	NPCs      []NPCDef   `json:"npcs,omitempty"`
	Spells    []SpellDef `json:"spells,omitempty"`
}

// LoadWorld builds the authoritative world from parsed content. Malformed
// content (missing required fields, dangling references, damage ranges with
// min greater than max, rooms unreachable from the start room) is rejected
// outright.
func LoadWorld(content WorldContent) (*World, error) {
	if len(content.Rooms) == 0 {
		return nil, fmt.Errorf("load world: no rooms defined")
	}
	start := RoomID(strings.TrimSpace(content.StartRoom))
	if start == "" {
		return nil, fmt.Errorf("load world: start_room is required")
	}

	w := &World{
		rooms:    make(map[RoomID]*Room, len(content.Rooms)),
		items:    make(map[string]ItemDef, len(content.Items)),
		spells:   make(map[string]*SpellDefinition, len(content.Spells)),
		players:  make(map[string]*Player),
		npcs:     make(map[string]*NPC, len(content.NPCs)),
		start:    start,
		lockWait: DefaultLockWait,
		roll:     randRoll,
	}

	for _, def := range content.Items {
		if def.ID == "" || def.Name == "" {
			return nil, fmt.Errorf("load world: item requires id and name")
		}
		if _, dup := w.items[def.ID]; dup {
			return nil, fmt.Errorf("load world: duplicate item id %q", def.ID)
		}
		w.items[def.ID] = def
	}

	for _, def := range content.Rooms {
		id := RoomID(def.ID)
		if id == "" {
			return nil, fmt.Errorf("load world: room without an id")
		}
		if _, dup := w.rooms[id]; dup {
			return nil, fmt.Errorf("load world: duplicate room id %q", id)
		}
		exits := make(map[string]RoomID, len(def.Exits))
		for dir, dest := range def.Exits {
			exits[strings.ToLower(dir)] = RoomID(dest)
		}
		room := newRoom(id, def.Title, def.Description, exits)
		for _, itemID := range def.Items {
			if _, ok := w.items[itemID]; !ok {
				return nil, fmt.Errorf("load world: room %q places unknown item %q", id, itemID)
			}
			room.items = append(room.items, itemID)
		}
		w.rooms[id] = room
	}

	if _, ok := w.rooms[start]; !ok {
		return nil, fmt.Errorf("load world: start room %q is not defined", start)
	}
	for id, room := range w.rooms {
		for dir, dest := range room.Exits {
			if _, ok := w.rooms[dest]; !ok {
				return nil, fmt.Errorf("load world: room %q exit %q leads to unknown room %q", id, dir, dest)
			}
		}
	}
	if orphans := unreachableRooms(w.rooms, start); len(orphans) > 0 {
		return nil, fmt.Errorf("load world: rooms unreachable from start: %s", strings.Join(orphans, ", "))
	}

	for _, def := range content.NPCs {
		if def.ID == "" || def.Name == "" {
			return nil, fmt.Errorf("load world: npc requires id and name")
		}
		if _, dup := w.npcs[def.ID]; dup {
			return nil, fmt.Errorf("load world: duplicate npc id %q", def.ID)
		}
		room, ok := w.rooms[RoomID(def.Room)]
		if !ok {
			return nil, fmt.Errorf("load world: npc %q placed in unknown room %q", def.ID, def.Room)
		}
		level := def.Level
		if level < 1 {
			level = 1
		}
		health := def.Health
		if health <= 0 {
			health = 40 + (level-1)*8
		}
		npc := &NPC{
			ID:        def.ID,
			Name:      def.Name,
			Room:      room.ID,
			Health:    health,
			MaxHealth: health,
			Attack:    def.Attack,
			Defense:   def.Defense,
			Level:     level,
			Hostile:   def.Hostile,
			Greeting:  def.Greeting,
			lk:        newEntityLock(),
		}
		w.npcs[def.ID] = npc
		room.npcs[def.ID] = struct{}{}
	}

	for _, def := range content.Spells {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("load world: spell without a name")
		}
		kind, err := ParseSpellKind(def.Type)
		if err != nil {
			return nil, fmt.Errorf("load world: spell %q: %w", def.Name, err)
		}
		if def.ManaCost < 0 {
			return nil, fmt.Errorf("load world: spell %q has negative mana cost", def.Name)
		}
		if def.BaseDamage[0] > def.BaseDamage[1] {
			return nil, fmt.Errorf("load world: spell %q damage range min %d > max %d", def.Name, def.BaseDamage[0], def.BaseDamage[1])
		}
		if def.DamageMultiplier < 0 {
			return nil, fmt.Errorf("load world: spell %q has negative damage multiplier", def.Name)
		}
		spell := &SpellDefinition{
			Name:           def.Name,
			Description:    def.Description,
			ManaCost:       def.ManaCost,
			Kind:           kind,
			RequiresTarget: def.RequiresTarget,
			Multiplier:     def.DamageMultiplier,
			MinDamage:      def.BaseDamage[0],
			MaxDamage:      def.BaseDamage[1],
		}
		if _, dup := w.spells[spell.key()]; dup {
			return nil, fmt.Errorf("load world: duplicate spell %q", def.Name)
		}
		w.spells[spell.key()] = spell
	}

	return w, nil
}

func unreachableRooms(rooms map[RoomID]*Room, start RoomID) []string {
	visited := make(map[RoomID]struct{}, len(rooms))
	queue := []RoomID{start}
	visited[start] = struct{}{}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		room := rooms[id]
		if room == nil {
			continue
		}
		for _, dest := range room.Exits {
			if _, seen := visited[dest]; !seen {
				visited[dest] = struct{}{}
				queue = append(queue, dest)
			}
		}
	}
	var orphans []string
	for id := range rooms {
		if _, ok := visited[id]; !ok {
			orphans = append(orphans, string(id))
		}
	}
	sort.Strings(orphans)
	return orphans
}
