package commands

import (
	"errors"
	"fmt"

	"Emberveil/internal/game"
)

func handleMove(ctx *Context) bool {
	dir := ctx.Intent.Direction
	from := ctx.Player.Snapshot().Room
	dest, err := ctx.World.MovePlayer(ctx.Player, dir)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNoSuchExit):
			ctx.Reply(game.Failure("You can't go that way."))
		case errors.Is(err, game.ErrContended):
			ctx.Reply(game.Failure("The way is crowded. Try again."))
		default:
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	ctx.World.BroadcastToRoom(from, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s leaves %s.", ctx.Player.Name, dir),
	}, ctx.Player)
	ctx.World.BroadcastToRoom(dest, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s arrives.", ctx.Player.Name),
	}, ctx.Player)
	return handleLook(ctx)
}
