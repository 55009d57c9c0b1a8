package game

// EventKind classifies an outbound event so transport adapters can decide how
// to render it. Telnet maps kinds to ANSI styles, the websocket adapter
// serialises them as JSON frames. The text carried is identical either way.
type EventKind string

const (
	EventInfo   EventKind = "info"
	EventError  EventKind = "error"
	EventRoom   EventKind = "room"
	EventSay    EventKind = "say"
	EventChat   EventKind = "chat"
	EventCombat EventKind = "combat"
	EventDeath  EventKind = "death"
	EventSystem EventKind = "system"
)

// Event is a single outbound message bound for one player's transport.
type Event struct {
	Kind EventKind `json:"type"`
	Text string    `json:"text"`
}

// Info is shorthand for a plain informational event.
func Info(text string) Event { return Event{Kind: EventInfo, Text: text} }

// Failure is shorthand for a validation response event.
func Failure(text string) Event { return Event{Kind: EventError, Text: text} }

// deliver sends an event to the player without blocking. A full output
// channel drops the event, and a retired player drops it too: the output
// channel is never closed, so stale pointers held by in-flight commands stay
// safe to send through.
func deliver(p *Player, ev Event) {
	if p == nil || p.Output == nil {
		return
	}
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.Output <- ev:
	default:
	}
}
