package commands

import (
	"errors"
	"fmt"

	"Emberveil/internal/game"
)

func handleAttack(ctx *Context) bool {
	snap, err := ctx.World.Snapshot(ctx.Player)
	if err != nil {
		ctx.Reply(game.Failure(err.Error()))
		return false
	}
	result, err := ctx.World.MeleeAttackNPC(ctx.Player, ctx.Intent.Target)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNoTarget):
			ctx.Reply(game.Failure("There is no such target here."))
		case errors.Is(err, game.ErrTargetGone):
			ctx.Reply(game.Failure("Your target is already gone."))
		case errors.Is(err, game.ErrContended):
			ctx.Reply(game.Failure("You can't get a clear swing. Try again."))
		default:
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}

	ctx.Reply(game.Event{
		Kind: game.EventCombat,
		Text: fmt.Sprintf("You strike %s for %d damage. (%d/%d)",
			result.NPC.Name, result.Damage, result.NPC.Health, result.NPC.MaxHealth),
	})
	ctx.World.BroadcastToRoom(snap.Room, game.Event{
		Kind: game.EventCombat,
		Text: fmt.Sprintf("%s strikes %s.", ctx.Player.Name, result.NPC.Name),
	}, ctx.Player)
	if result.Defeated {
		slain := game.Event{
			Kind: game.EventDeath,
			Text: fmt.Sprintf("%s is slain by %s!", result.NPC.Name, ctx.Player.Name),
		}
		ctx.Reply(slain)
		ctx.World.BroadcastToRoom(snap.Room, slain, ctx.Player)
		awardKill(ctx, result.NPC.Level)
		return false
	}
	counterAttack(ctx, result.NPC)
	return false
}

// counterAttack lets a surviving hostile NPC swing back immediately.
func counterAttack(ctx *Context, npc game.NPCSnapshot) {
	if !npc.Hostile {
		return
	}
	snap, err := ctx.World.Snapshot(ctx.Player)
	if err != nil {
		return
	}
	damage := ctx.World.MeleeDamage(npc.Attack, snap.Defense)
	result, err := ctx.World.DamagePlayer(ctx.Player, damage)
	if err != nil {
		return
	}
	ctx.Reply(game.Event{
		Kind: game.EventCombat,
		Text: fmt.Sprintf("%s hits you for %d damage! (%d/%d)",
			npc.Name, result.Damage, result.Remaining, snap.MaxHealth),
	})
	if result.Defeated {
		ctx.Reply(game.Event{
			Kind: game.EventDeath,
			Text: "You have been defeated! You awaken at the start, restored.",
		})
		ctx.World.BroadcastToRoom(result.Room, game.Event{
			Kind: game.EventDeath,
			Text: fmt.Sprintf("%s falls to %s!", ctx.Player.Name, npc.Name),
		}, ctx.Player)
	}
}
