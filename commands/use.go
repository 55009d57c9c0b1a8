package commands

import (
	"errors"
	"fmt"

	"Emberveil/internal/game"
)

func handleUse(ctx *Context) bool {
	def, healed, err := ctx.World.UseItem(ctx.Player, ctx.Intent.Item)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrItemNotCarried):
			ctx.Reply(game.Failure("You aren't carrying that."))
		case errors.Is(err, game.ErrContended):
			ctx.Reply(game.Failure("Your hands are full. Try again."))
		default:
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	if healed == 0 && def.Heal <= 0 {
		ctx.Reply(game.Info(fmt.Sprintf("You fiddle with %s. Nothing happens.", def.Name)))
		return false
	}
	snap := ctx.Player.Snapshot()
	ctx.Reply(game.Info(fmt.Sprintf("You consume %s and recover %d health. (%d/%d)",
		def.Name, healed, snap.Health, snap.MaxHealth)))
	ctx.World.BroadcastToRoom(snap.Room, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s consumes %s.", ctx.Player.Name, def.Name),
	}, ctx.Player)
	return false
}
