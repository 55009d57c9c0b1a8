package game

import (
	"fmt"
	"strings"
)

const (
	AnsiReset     = "\x1b[0m"
	AnsiBold      = "\x1b[1m"
	AnsiDim       = "\x1b[2m"
	AnsiItalic    = "\x1b[3m"
	AnsiUnderline = "\x1b[4m"
	AnsiRed       = "\x1b[31m"
	AnsiGreen     = "\x1b[32m"
	AnsiYellow    = "\x1b[33m"
	AnsiMagenta   = "\x1b[35m"
	AnsiCyan      = "\x1b[36m"
)

// Style wraps text with the provided ANSI attributes.
func Style(text string, attrs ...string) string {
	if len(attrs) == 0 {
		return text
	}
	return strings.Join(attrs, "") + text + AnsiReset
}

// HighlightName formats player names consistently.
func HighlightName(name string) string {
	return Style(name, AnsiBold, AnsiCyan)
}

// Trim normalises a telnet input line: control and format characters are
// stripped, exotic whitespace collapses to plain spaces, and the ends are
// trimmed.
func Trim(s string) string {
	return strings.TrimSpace(sanitizeInput(s))
}

// Ansi ensures output strings end with a reset sequence.
func Ansi(c string) string {
	if strings.Contains(c, "\x1b[") && !strings.HasSuffix(c, AnsiReset) {
		return c + AnsiReset
	}
	return c
}

var eventStyles = map[EventKind][]string{
	EventError:  {AnsiBold, AnsiRed},
	EventCombat: {AnsiRed},
	EventDeath:  {AnsiBold, AnsiMagenta},
	EventSay:    {AnsiCyan},
	EventChat:   {AnsiYellow},
	EventRoom:   {AnsiGreen},
	EventSystem: {AnsiDim},
}

// RenderEvent converts an engine event into a styled telnet line. Websocket
// clients receive events as JSON and style them client side.
func RenderEvent(ev Event) string {
	attrs, ok := eventStyles[ev.Kind]
	if !ok {
		return ev.Text
	}
	return Ansi(Style(ev.Text, attrs...))
}

// Prompt renders the standard player prompt with current vitals.
func Prompt(p *Player) string {
	snap := p.Snapshot()
	vitals := fmt.Sprintf("\r\n[%d/%dhp %d/%dmp] > ",
		snap.Health, snap.MaxHealth, snap.Mana, snap.MaxMana)
	return Ansi(Style(vitals, AnsiBold, AnsiYellow))
}
