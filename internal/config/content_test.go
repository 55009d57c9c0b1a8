package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validContent = `{
  "start_room": "square",
  "rooms": [
    {
      "id": "square",
      "title": "The Ember Square",
      "description": "An open plaza under drifting cinders.",
      "exits": {"north": "lane"},
      "items": ["lantern"]
    },
    {
      "id": "lane",
      "title": "Narrow Lane",
      "description": "A cramped lane.",
      "exits": {"south": "square"}
    }
  ],
  "items": [
    {"id": "lantern", "name": "brass lantern", "description": "A dented brass lantern."}
  ],
  "npcs": [
    {"id": "rat1", "name": "giant rat", "room": "lane", "health": 20, "attack": 4, "hostile": true}
  ],
  "spells": [
    {
      "name": "fireball",
      "mana_cost": 20,
      "spell_type": "offensive",
      "requires_target": true,
      "damage_multiplier": 2.0,
      "base_damage": [5, 15]
    }
  ]
}`

func TestParseContentValid(t *testing.T) {
	content, err := ParseContent([]byte(validContent))
	require.NoError(t, err)
	require.Equal(t, "square", content.StartRoom)
	require.Len(t, content.Rooms, 2)
	require.Len(t, content.Spells, 1)
	require.Equal(t, [2]int{5, 15}, content.Spells[0].BaseDamage)
	require.Equal(t, 2.0, content.Spells[0].DamageMultiplier)
}

func TestParseContentRejected(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{"start_room": `},
		{"missing start_room", `{"rooms": [{"id": "a", "title": "A", "description": "x"}]}`},
		{"empty rooms", `{"start_room": "a", "rooms": []}`},
		{"room missing description", `{"start_room": "a", "rooms": [{"id": "a", "title": "A"}]}`},
		{
			"bad spell type",
			`{"start_room": "a",
			  "rooms": [{"id": "a", "title": "A", "description": "x"}],
			  "spells": [{"name": "hex", "mana_cost": 5, "spell_type": "summoning", "damage_multiplier": 1.0, "base_damage": [1, 2]}]}`,
		},
		{
			"base damage wrong arity",
			`{"start_room": "a",
			  "rooms": [{"id": "a", "title": "A", "description": "x"}],
			  "spells": [{"name": "hex", "mana_cost": 5, "spell_type": "offensive", "damage_multiplier": 1.0, "base_damage": [1]}]}`,
		},
		{
			"negative mana cost",
			`{"start_room": "a",
			  "rooms": [{"id": "a", "title": "A", "description": "x"}],
			  "spells": [{"name": "hex", "mana_cost": -5, "spell_type": "offensive", "damage_multiplier": 1.0, "base_damage": [1, 2]}]}`,
		},
		{
			"npc missing room",
			`{"start_room": "a",
			  "rooms": [{"id": "a", "title": "A", "description": "x"}],
			  "npcs": [{"id": "n1", "name": "thing"}]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseContent([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestLoadContentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	require.NoError(t, os.WriteFile(path, []byte(validContent), 0o644))

	content, err := LoadContent(path)
	require.NoError(t, err)
	require.Equal(t, "square", content.StartRoom)
}

func TestLoadContentMissingFile(t *testing.T) {
	_, err := LoadContent(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
