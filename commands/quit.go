package commands

import (
	"Emberveil/internal/game"
)

func handleQuit(ctx *Context) bool {
	ctx.Reply(game.Event{Kind: game.EventSystem, Text: "Farewell."})
	return true
}
