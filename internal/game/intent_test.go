package game

import "testing"

func TestInterpret(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
	}{
		{"north", Intent{Kind: IntentMove, Direction: "north", Raw: "north"}},
		{"n", Intent{Kind: IntentMove, Direction: "north", Raw: "n"}},
		{"GO East", Intent{Kind: IntentMove, Direction: "east", Raw: "GO East"}},
		{"walk u", Intent{Kind: IntentMove, Direction: "up", Raw: "walk u"}},
		{"go sideways", Intent{Kind: IntentUnknown, Raw: "go sideways"}},
		{"look", Intent{Kind: IntentLook, Raw: "look"}},
		{"l", Intent{Kind: IntentLook, Raw: "l"}},
		{"inv", Intent{Kind: IntentInventory, Raw: "inv"}},
		{"score", Intent{Kind: IntentStats, Raw: "score"}},
		{"cast fireball giant rat", Intent{Kind: IntentCast, Spell: "fireball", Target: "giant rat", Raw: "cast fireball giant rat"}},
		{"cast Mend", Intent{Kind: IntentCast, Spell: "mend", Raw: "cast Mend"}},
		{"cast", Intent{Kind: IntentUnknown, Raw: "cast"}},
		{"learn Fireball", Intent{Kind: IntentLearn, Spell: "fireball", Raw: "learn Fireball"}},
		{"learn", Intent{Kind: IntentUnknown, Raw: "learn"}},
		{"spellbook", Intent{Kind: IntentSpells, Raw: "spellbook"}},
		{"kill rat", Intent{Kind: IntentAttack, Target: "rat", Raw: "kill rat"}},
		{"attack", Intent{Kind: IntentUnknown, Raw: "attack"}},
		{"take brass lantern", Intent{Kind: IntentGet, Item: "brass lantern", Raw: "take brass lantern"}},
		{"drop lantern", Intent{Kind: IntentDrop, Item: "lantern", Raw: "drop lantern"}},
		{"eat bread", Intent{Kind: IntentUse, Item: "bread", Raw: "eat bread"}},
		{"use", Intent{Kind: IntentUnknown, Raw: "use"}},
		{"goto cellar", Intent{Kind: IntentGoto, Target: "cellar", Raw: "goto cellar"}},
		{"spawn lantern", Intent{Kind: IntentSpawn, Item: "lantern", Raw: "spawn lantern"}},
		{"purge lantern", Intent{Kind: IntentPurge, Item: "lantern", Raw: "purge lantern"}},
		{"say hello there", Intent{Kind: IntentSay, Message: "hello there", Raw: "say hello there"}},
		{"shout anyone home", Intent{Kind: IntentChat, Message: "anyone home", Raw: "shout anyone home"}},
		{"talk old keeper", Intent{Kind: IntentTalk, Target: "old keeper", Raw: "talk old keeper"}},
		{"talk", Intent{Kind: IntentUnknown, Raw: "talk"}},
		{"who", Intent{Kind: IntentWho, Raw: "who"}},
		{"?", Intent{Kind: IntentHelp, Raw: "?"}},
		{"logout", Intent{Kind: IntentQuit, Raw: "logout"}},
		{"", Intent{Kind: IntentUnknown}},
		{"   ", Intent{Kind: IntentUnknown}},
		{"xyzzy", Intent{Kind: IntentUnknown, Raw: "xyzzy"}},
	}
	for _, tc := range cases {
		got := Interpret(tc.in)
		if got != tc.want {
			t.Errorf("Interpret(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestInterpretStripsControlCharacters(t *testing.T) {
	got := Interpret("look\x1b\x07")
	if got.Kind != IntentLook {
		t.Fatalf("Interpret with escape bytes = %+v, want IntentLook", got)
	}
}
