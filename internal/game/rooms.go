package game

import (
	"sort"
	"strings"
)

type RoomID string

// Room is one location in the world. The static fields (ID, Title,
// Description, Exits) are fixed at load time; the membership sets record which
// players, NPCs, and items are currently present and are mutated only while
// the room's entity lock is held.
type Room struct {
	ID          RoomID
	Title       string
	Description string
	Exits       map[string]RoomID

	players map[string]struct{}
	npcs    map[string]struct{}
	items   []string

	lk entityLock
}

func (r *Room) lockID() string    { return "r:" + string(r.ID) }
func (r *Room) lock() *entityLock { return &r.lk }

func newRoom(id RoomID, title, description string, exits map[string]RoomID) *Room {
	if exits == nil {
		exits = make(map[string]RoomID)
	}
	return &Room{
		ID:          id,
		Title:       title,
		Description: description,
		Exits:       exits,
		players:     make(map[string]struct{}),
		npcs:        make(map[string]struct{}),
		lk:          newEntityLock(),
	}
}

// RoomView is a consistent snapshot of a room used to render look output.
type RoomView struct {
	ID          RoomID
	Title       string
	Description string
	Exits       []string
	Players     []string
	NPCs        []NPCSnapshot
	Items       []string
}

// Describe renders the view as look output from the viewer's perspective.
func (v RoomView) Describe(viewer string) string {
	var b strings.Builder
	b.WriteString(v.Title)
	b.WriteString("\n")
	b.WriteString(v.Description)
	if others := FilterOut(v.Players, viewer); len(others) > 0 {
		b.WriteString("\nAlso here: ")
		b.WriteString(strings.Join(others, ", "))
	}
	for _, npc := range v.NPCs {
		b.WriteString("\n")
		b.WriteString(npc.Name)
		if npc.Hostile {
			b.WriteString(" glares at you menacingly.")
		} else {
			b.WriteString(" is here.")
		}
	}
	if len(v.Items) > 0 {
		b.WriteString("\nOn the ground: ")
		b.WriteString(strings.Join(v.Items, ", "))
	}
	b.WriteString("\nExits: ")
	if len(v.Exits) == 0 {
		b.WriteString("none")
	} else {
		b.WriteString(strings.Join(v.Exits, " "))
	}
	return b.String()
}

// ExitList renders the exits for a room in a deterministic order.
func ExitList(exits map[string]RoomID) string {
	if len(exits) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(exits))
	for k := range exits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, " ")
}

// FilterOut returns a copy of list without the provided name.
func FilterOut(list []string, name string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}
