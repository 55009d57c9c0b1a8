package commands

import (
	"errors"
	"fmt"
	"strings"

	"Emberveil/internal/game"
)

// requireAdmin gates a handler on the session's admin flag.
func requireAdmin(ctx *Context) bool {
	if ctx.Player.IsAdmin {
		return true
	}
	ctx.Reply(game.Failure("Only the warden may do that."))
	return false
}

func handleGoto(ctx *Context) bool {
	if !requireAdmin(ctx) {
		return false
	}
	dest := game.RoomID(strings.TrimSpace(ctx.Intent.Target))
	from := ctx.Player.Snapshot().Room
	if err := ctx.World.MoveToRoom(ctx.Player, dest); err != nil {
		if errors.Is(err, game.ErrContended) {
			ctx.Reply(game.Failure("The veil resists. Try again."))
		} else {
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	ctx.World.BroadcastToRoom(from, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s vanishes in a swirl of embers.", ctx.Player.Name),
	}, ctx.Player)
	ctx.World.BroadcastToRoom(dest, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s steps out of a swirl of embers.", ctx.Player.Name),
	}, ctx.Player)
	return handleLook(ctx)
}

func handleSpawn(ctx *Context) bool {
	if !requireAdmin(ctx) {
		return false
	}
	id := strings.TrimSpace(ctx.Intent.Item)
	def, ok := ctx.World.ItemDefinition(id)
	if !ok {
		ctx.Reply(game.Failure("No item bears that id."))
		return false
	}
	room := ctx.Player.Snapshot().Room
	if err := ctx.World.PlaceItem(room, id); err != nil {
		ctx.Reply(game.Failure(err.Error()))
		return false
	}
	ctx.Reply(game.Info(fmt.Sprintf("You conjure %s.", def.Name)))
	ctx.World.BroadcastToRoom(room, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s appears on the ground.", def.Name),
	}, ctx.Player)
	return false
}

func handlePurge(ctx *Context) bool {
	if !requireAdmin(ctx) {
		return false
	}
	id := strings.TrimSpace(ctx.Intent.Item)
	def, ok := ctx.World.ItemDefinition(id)
	if !ok {
		ctx.Reply(game.Failure("No item bears that id."))
		return false
	}
	if err := ctx.World.RemoveItem(ctx.Player.Snapshot().Room, id); err != nil {
		if errors.Is(err, game.ErrItemNotFound) {
			ctx.Reply(game.Failure("No such item lies here."))
		} else {
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	ctx.Reply(game.Info(fmt.Sprintf("You unmake %s.", def.Name)))
	return false
}
