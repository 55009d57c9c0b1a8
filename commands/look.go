package commands

import (
	"Emberveil/internal/game"
)

func handleLook(ctx *Context) bool {
	view, err := ctx.World.View(ctx.Player)
	if err != nil {
		ctx.Reply(game.Failure(err.Error()))
		return false
	}
	ctx.Reply(game.Event{Kind: game.EventRoom, Text: view.Describe(ctx.Player.Name)})
	return false
}
