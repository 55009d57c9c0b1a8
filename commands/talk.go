package commands

import (
	"errors"
	"fmt"

	"Emberveil/internal/game"
)

func handleTalk(ctx *Context) bool {
	snap := ctx.Player.Snapshot()
	npc, err := ctx.World.TalkToNPC(ctx.Player, ctx.Intent.Target)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNoTarget):
			ctx.Reply(game.Failure("There is nobody like that here."))
		case errors.Is(err, game.ErrTargetGone):
			ctx.Reply(game.Failure("They are already gone."))
		case errors.Is(err, game.ErrContended):
			ctx.Reply(game.Failure("You can't get their attention. Try again."))
		default:
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	if npc.Hostile {
		ctx.Reply(game.Failure(fmt.Sprintf("%s snarls at you. Words won't help here.", npc.Name)))
		return false
	}
	if npc.Greeting == "" {
		ctx.Reply(game.Info(fmt.Sprintf("%s has nothing to say.", npc.Name)))
		return false
	}
	ctx.Reply(game.Event{
		Kind: game.EventSay,
		Text: fmt.Sprintf("%s says: %s", npc.Name, npc.Greeting),
	})
	ctx.World.BroadcastToRoom(snap.Room, game.Event{
		Kind: game.EventRoom,
		Text: fmt.Sprintf("%s speaks with %s.", ctx.Player.Name, npc.Name),
	}, ctx.Player)
	return false
}
