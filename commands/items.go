package commands

import (
	"errors"
	"fmt"

	"Emberveil/internal/game"
)

func handleGet(ctx *Context) bool {
	def, err := ctx.World.TakeItem(ctx.Player, ctx.Intent.Item)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrItemNotFound):
			ctx.Reply(game.Failure("You don't see that here."))
		case errors.Is(err, game.ErrContended):
			ctx.Reply(game.Failure("Someone else grabs for it. Try again."))
		default:
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	ctx.Reply(game.Info(fmt.Sprintf("You pick up %s.", def.Name)))
	ctx.World.BroadcastToRoom(ctx.Player.Snapshot().Room, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s picks up %s.", ctx.Player.Name, def.Name),
	}, ctx.Player)
	return false
}

func handleDrop(ctx *Context) bool {
	def, err := ctx.World.DropItem(ctx.Player, ctx.Intent.Item)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrItemNotCarried):
			ctx.Reply(game.Failure("You aren't carrying that."))
		case errors.Is(err, game.ErrContended):
			ctx.Reply(game.Failure("You fumble. Try again."))
		default:
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	ctx.Reply(game.Info(fmt.Sprintf("You drop %s.", def.Name)))
	ctx.World.BroadcastToRoom(ctx.Player.Snapshot().Room, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s drops %s.", ctx.Player.Name, def.Name),
	}, ctx.Player)
	return false
}
