package commands

import (
	"Emberveil/internal/game"
)

// Context provides the runtime data available to a command handler.
type Context struct {
	World  *game.World
	Player *game.Player
	Intent game.Intent
}

// Handler executes one structured intent.
// Returning true indicates the session should terminate.
type Handler func(*Context) bool

// Reply sends a response event to the acting player.
func (ctx *Context) Reply(ev game.Event) {
	ctx.World.Send(ctx.Player, ev)
}

// Dispatch interprets a raw command line and executes the matching handler.
// Every intent kind has exactly one handler; unrecognised input lands on the
// unknown handler rather than an error path.
func Dispatch(world *game.World, player *game.Player, line string) bool {
	intent := game.Interpret(line)
	ctx := &Context{World: world, Player: player, Intent: intent}
	switch intent.Kind {
	case game.IntentMove:
		return handleMove(ctx)
	case game.IntentLook:
		return handleLook(ctx)
	case game.IntentInventory:
		return handleInventory(ctx)
	case game.IntentStats:
		return handleStats(ctx)
	case game.IntentCast:
		return handleCast(ctx)
	case game.IntentLearn:
		return handleLearn(ctx)
	case game.IntentSpells:
		return handleSpells(ctx)
	case game.IntentAttack:
		return handleAttack(ctx)
	case game.IntentGet:
		return handleGet(ctx)
	case game.IntentDrop:
		return handleDrop(ctx)
	case game.IntentUse:
		return handleUse(ctx)
	case game.IntentSay:
		return handleSay(ctx)
	case game.IntentChat:
		return handleChat(ctx)
	case game.IntentTalk:
		return handleTalk(ctx)
	case game.IntentWho:
		return handleWho(ctx)
	case game.IntentHelp:
		return handleHelp(ctx)
	case game.IntentQuit:
		return handleQuit(ctx)
	case game.IntentGoto:
		return handleGoto(ctx)
	case game.IntentSpawn:
		return handleSpawn(ctx)
	case game.IntentPurge:
		return handlePurge(ctx)
	}
	return handleUnknown(ctx)
}
