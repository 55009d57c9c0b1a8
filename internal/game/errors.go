package game

import "errors"

var (
	// ErrNoSuchExit indicates the requested direction has no mapped neighbour.
	ErrNoSuchExit = errors.New("no exit in that direction")
	// ErrUnknownSpell indicates no spell definition exists under the name.
	ErrUnknownSpell = errors.New("unknown spell")
	// ErrSpellNotKnown indicates the caster has not learned the spell.
	ErrSpellNotKnown = errors.New("spell not known")
	// ErrInsufficientMana indicates the caster cannot pay the mana cost.
	ErrInsufficientMana = errors.New("insufficient mana")
	// ErrNoTarget indicates a required target was missing or not co-located.
	ErrNoTarget = errors.New("no such target here")
	// ErrTargetGone indicates the target vanished before resolution. Callers
	// treat this as a benign race, never a crash.
	ErrTargetGone = errors.New("target no longer exists")
	// ErrContended indicates the required entity locks could not be acquired
	// within the bounded wait. The action may be retried.
	ErrContended = errors.New("world is busy, try again")
	// ErrItemNotFound indicates a requested item could not be located.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemNotCarried indicates the player is not carrying the requested item.
	ErrItemNotCarried = errors.New("item not carried")
	// ErrNotOnline indicates the player has no live session in the world.
	ErrNotOnline = errors.New("player is not online")
	// ErrAlreadyConnected indicates a live session already exists for the name.
	ErrAlreadyConnected = errors.New("already connected")
)
