package commands

import (
	"fmt"

	"Emberveil/internal/game"
)

func handleSay(ctx *Context) bool {
	msg := ctx.Intent.Message
	snap := ctx.Player.Snapshot()
	ctx.World.BroadcastToRoom(snap.Room, game.Event{
		Kind: game.EventSay,
		Text: fmt.Sprintf("%s says: %s", ctx.Player.Name, msg),
	}, ctx.Player)
	ctx.Reply(game.Event{Kind: game.EventSay, Text: "You say: " + msg})
	return false
}

func handleChat(ctx *Context) bool {
	msg := ctx.Intent.Message
	ctx.World.BroadcastToAll(game.Event{
		Kind: game.EventChat,
		Text: fmt.Sprintf("%s shouts: %s", ctx.Player.Name, msg),
	}, ctx.Player)
	ctx.Reply(game.Event{Kind: game.EventChat, Text: "You shout: " + msg})
	return false
}
