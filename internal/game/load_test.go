package game

import (
	"strings"
	"testing"
)

func TestLoadWorldValid(t *testing.T) {
	w, err := LoadWorld(testContent())
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	if w.StartRoom() != RoomID("square") {
		t.Fatalf("start room = %q, want square", w.StartRoom())
	}
	if _, ok := w.Spell("FIREBALL"); !ok {
		t.Fatalf("spell lookup not case-insensitive")
	}
	npcs := w.RoomNPCs("lane")
	if len(npcs) != 1 || npcs[0].Name != "giant rat" {
		t.Fatalf("lane NPCs = %+v", npcs)
	}
}

func TestLoadWorldDefaultsNPCStats(t *testing.T) {
	content := testContent()
	content.NPCs = append(content.NPCs, NPCDef{ID: "ghoul", Name: "pale ghoul", Room: "cellar", Level: 3, Hostile: true})

	w, err := LoadWorld(content)
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	npcs := w.RoomNPCs("cellar")
	if len(npcs) != 1 {
		t.Fatalf("cellar NPCs = %+v", npcs)
	}
	// level 3 with no explicit health falls back to 40 + 2*8.
	if npcs[0].Health != 56 || npcs[0].MaxHealth != 56 {
		t.Fatalf("defaulted health = %d/%d, want 56/56", npcs[0].Health, npcs[0].MaxHealth)
	}
}

func TestLoadWorldRejectsBadContent(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*WorldContent)
		wantErr string
	}{
		{
			name:    "no rooms",
			mutate:  func(c *WorldContent) { c.Rooms = nil },
			wantErr: "no rooms",
		},
		{
			name:    "missing start room",
			mutate:  func(c *WorldContent) { c.StartRoom = "" },
			wantErr: "start_room is required",
		},
		{
			name:    "undefined start room",
			mutate:  func(c *WorldContent) { c.StartRoom = "void" },
			wantErr: `start room "void" is not defined`,
		},
		{
			name: "duplicate room id",
			mutate: func(c *WorldContent) {
				c.Rooms = append(c.Rooms, RoomDef{ID: "square", Title: "Twin Square"})
			},
			wantErr: "duplicate room id",
		},
		{
			name: "dangling exit",
			mutate: func(c *WorldContent) {
				c.Rooms[2].Exits["down"] = "abyss"
			},
			wantErr: `leads to unknown room "abyss"`,
		},
		{
			name: "unreachable room",
			mutate: func(c *WorldContent) {
				c.Rooms = append(c.Rooms, RoomDef{ID: "attic", Title: "Attic"})
			},
			wantErr: "unreachable from start: attic",
		},
		{
			name: "room places unknown item",
			mutate: func(c *WorldContent) {
				c.Rooms[0].Items = append(c.Rooms[0].Items, "sword")
			},
			wantErr: `unknown item "sword"`,
		},
		{
			name: "duplicate npc id",
			mutate: func(c *WorldContent) {
				c.NPCs = append(c.NPCs, NPCDef{ID: "rat1", Name: "second rat", Room: "lane"})
			},
			wantErr: "duplicate npc id",
		},
		{
			name: "npc in unknown room",
			mutate: func(c *WorldContent) {
				c.NPCs[0].Room = "void"
			},
			wantErr: `placed in unknown room "void"`,
		},
		{
			name: "unknown spell kind",
			mutate: func(c *WorldContent) {
				c.Spells[0].Type = "summoning"
			},
			wantErr: "unknown spell type",
		},
		{
			name: "inverted damage range",
			mutate: func(c *WorldContent) {
				c.Spells[0].BaseDamage = [2]int{15, 5}
			},
			wantErr: "damage range min 15 > max 5",
		},
		{
			name: "negative mana cost",
			mutate: func(c *WorldContent) {
				c.Spells[0].ManaCost = -1
			},
			wantErr: "negative mana cost",
		},
		{
			name: "duplicate spell",
			mutate: func(c *WorldContent) {
				c.Spells = append(c.Spells, c.Spells[0])
			},
			wantErr: "duplicate spell",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := testContent()
			tc.mutate(&content)
			_, err := LoadWorld(content)
			if err == nil {
				t.Fatalf("LoadWorld accepted bad content")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestUnreachableRoomsIgnoresDirection(t *testing.T) {
	// A one-way exit into a room still counts as reachable.
	content := WorldContent{
		StartRoom: "a",
		Rooms: []RoomDef{
			{ID: "a", Title: "A", Exits: map[string]string{"north": "b"}},
			{ID: "b", Title: "B"},
		},
	}
	if _, err := LoadWorld(content); err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
}
