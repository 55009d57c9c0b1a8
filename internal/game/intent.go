package game

import (
	"strings"
	"unicode"
)

// IntentKind enumerates every structured command the engine understands.
// Unrecognised input is a first-class IntentUnknown, not an error path.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentMove
	IntentLook
	IntentInventory
	IntentStats
	IntentCast
	IntentLearn
	IntentSpells
	IntentAttack
	IntentGet
	IntentDrop
	IntentUse
	IntentSay
	IntentChat
	IntentTalk
	IntentWho
	IntentHelp
	IntentQuit
	IntentGoto
	IntentSpawn
	IntentPurge
)

// Intent is the parsed, structured form of one raw command line. Parsing is
// pure: all effects happen when the intent is executed against the world.
type Intent struct {
	Kind      IntentKind
	Direction string
	Spell     string
	Target    string
	Item      string
	Message   string
	Raw       string
}

var directionShortcuts = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west", "u": "up", "d": "down",
}

var directions = map[string]struct{}{
	"north": {}, "south": {}, "east": {}, "west": {}, "up": {}, "down": {},
}

func canonicalDirection(token string) (string, bool) {
	token = strings.ToLower(token)
	if full, ok := directionShortcuts[token]; ok {
		return full, true
	}
	if _, ok := directions[token]; ok {
		return token, true
	}
	return "", false
}

// Interpret tokenises a raw line into an Intent. Verb matching is
// case-insensitive and single-letter direction shortcuts expand to full
// direction names. Interpret never fails: anything unrecognised comes back as
// IntentUnknown carrying the raw line.
func Interpret(raw string) Intent {
	line := strings.TrimSpace(sanitizeInput(raw))
	intent := Intent{Kind: IntentUnknown, Raw: line}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return intent
	}
	verb := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	if dir, ok := canonicalDirection(verb); ok {
		intent.Kind = IntentMove
		intent.Direction = dir
		return intent
	}

	switch verb {
	case "go", "move", "walk":
		if dir, ok := canonicalDirection(arg); ok {
			intent.Kind = IntentMove
			intent.Direction = dir
		}
	case "look", "l":
		intent.Kind = IntentLook
	case "inventory", "inv", "i":
		intent.Kind = IntentInventory
	case "stats", "score":
		intent.Kind = IntentStats
	case "cast":
		if len(fields) >= 2 {
			intent.Kind = IntentCast
			intent.Spell = strings.ToLower(fields[1])
			intent.Target = strings.Join(fields[2:], " ")
		}
	case "learn":
		if arg != "" {
			intent.Kind = IntentLearn
			intent.Spell = strings.ToLower(arg)
		}
	case "spells", "spellbook":
		intent.Kind = IntentSpells
	case "attack", "kill", "fight":
		if arg != "" {
			intent.Kind = IntentAttack
			intent.Target = arg
		}
	case "get", "take":
		if arg != "" {
			intent.Kind = IntentGet
			intent.Item = arg
		}
	case "drop":
		if arg != "" {
			intent.Kind = IntentDrop
			intent.Item = arg
		}
	case "use", "eat", "drink":
		if arg != "" {
			intent.Kind = IntentUse
			intent.Item = arg
		}
	case "say", "'":
		if arg != "" {
			intent.Kind = IntentSay
			intent.Message = arg
		}
	case "chat", "shout", "yell":
		if arg != "" {
			intent.Kind = IntentChat
			intent.Message = arg
		}
	case "talk", "greet":
		if arg != "" {
			intent.Kind = IntentTalk
			intent.Target = arg
		}
	case "who":
		intent.Kind = IntentWho
	case "help", "?":
		intent.Kind = IntentHelp
	case "quit", "exit", "logout":
		intent.Kind = IntentQuit
	case "goto", "teleport":
		if arg != "" {
			intent.Kind = IntentGoto
			intent.Target = arg
		}
	case "spawn":
		if arg != "" {
			intent.Kind = IntentSpawn
			intent.Item = arg
		}
	case "purge":
		if arg != "" {
			intent.Kind = IntentPurge
			intent.Item = arg
		}
	}
	return intent
}

// sanitizeInput scrubs a raw command line before tokenisation: control and
// delete bytes, Unicode format characters, and anything unprintable are
// dropped, while exotic whitespace collapses to plain spaces so Fields
// tokenises predictably.
func sanitizeInput(s string) string {
	return strings.Map(scrubRune, s)
}

func scrubRune(r rune) rune {
	switch {
	case r == ' ':
		return r
	case r == '\r':
		return -1
	case unicode.IsSpace(r):
		return ' '
	case r < 0x20 || r == 0x7f || unicode.IsControl(r):
		return -1
	case unicode.Is(unicode.Cf, r):
		return -1
	case !unicode.IsPrint(r):
		return -1
	}
	return r
}
