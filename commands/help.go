package commands

import (
	"Emberveil/internal/game"
)

const helpText = `Movement: north south east west up down (or n/s/e/w/u/d, go <dir>)
World:    look, get <item>, drop <item>, use <item>, inventory, stats, who
Magic:    learn <spell>, spells, cast <spell> [target]
Combat:   attack <target>
Social:   say <message>, chat <message>, talk <npc>
Other:    help, quit`

func handleHelp(ctx *Context) bool {
	ctx.Reply(game.Info(helpText))
	return false
}

func handleUnknown(ctx *Context) bool {
	ctx.Reply(game.Failure("Unknown command. Type 'help'."))
	return false
}
