package commands

import (
	"errors"
	"fmt"

	"Emberveil/internal/game"
)

func handleCast(ctx *Context) bool {
	outcome, err := ctx.World.ResolveCast(ctx.Player, ctx.Intent.Spell, ctx.Intent.Target)
	if err != nil {
		ctx.Reply(castFailure(err))
		return false
	}
	announceCast(ctx, outcome)
	for _, effect := range outcome.Effects {
		reportEffect(ctx, outcome, effect)
	}
	return false
}

func castFailure(err error) game.Event {
	switch {
	case errors.Is(err, game.ErrUnknownSpell):
		return game.Failure("No such spell exists.")
	case errors.Is(err, game.ErrSpellNotKnown):
		return game.Failure("You have not learned that spell.")
	case errors.Is(err, game.ErrInsufficientMana):
		return game.Failure("You don't have enough mana.")
	case errors.Is(err, game.ErrNoTarget):
		return game.Failure("There is no such target here.")
	case errors.Is(err, game.ErrContended):
		return game.Failure("The weave resists you. Try again.")
	}
	return game.Failure(err.Error())
}

func announceCast(ctx *Context, outcome *game.CastOutcome) {
	ctx.Reply(game.Event{
		Kind: game.EventCombat,
		Text: fmt.Sprintf("You cast %s. (%d mana, %d remaining)",
			outcome.Spell.Name, outcome.ManaSpent, outcome.ManaLeft),
	})
	ctx.World.BroadcastToRoom(outcome.Room, game.Event{
		Kind: game.EventCombat,
		Text: fmt.Sprintf("%s casts %s.", outcome.Caster, outcome.Spell.Name),
	}, ctx.Player)
}

func reportEffect(ctx *Context, outcome *game.CastOutcome, effect game.CastEffect) {
	switch effect.Kind {
	case game.TargetSelf:
		ctx.Reply(game.Info(fmt.Sprintf("You are healed for %d. (%d/%d health)",
			effect.Amount, effect.Remaining, effect.Max)))
	case game.TargetNPC:
		ctx.Reply(game.Event{
			Kind: game.EventCombat,
			Text: fmt.Sprintf("%s takes %d damage. (%d/%d)",
				effect.Name, effect.Amount, effect.Remaining, effect.Max),
		})
		if effect.Defeated {
			slain := game.Event{
				Kind: game.EventDeath,
				Text: fmt.Sprintf("%s is destroyed by %s's %s!", effect.Name, outcome.Caster, outcome.Spell.Name),
			}
			ctx.Reply(slain)
			ctx.World.BroadcastToRoom(outcome.Room, slain, ctx.Player)
			awardKill(ctx, effect.Level)
		}
	case game.TargetPlayer:
		ctx.Reply(game.Event{
			Kind: game.EventCombat,
			Text: fmt.Sprintf("%s takes %d damage. (%d/%d)",
				effect.Name, effect.Amount, effect.Remaining, effect.Max),
		})
		if target, ok := ctx.World.ActivePlayer(effect.Name); ok {
			ctx.World.Send(target, game.Event{
				Kind: game.EventCombat,
				Text: fmt.Sprintf("%s's %s hits you for %d damage!", outcome.Caster, outcome.Spell.Name, effect.Amount),
			})
			if effect.Defeated {
				ctx.World.Send(target, game.Event{
					Kind: game.EventDeath,
					Text: "You have been defeated! You awaken at the start, restored.",
				})
			}
		}
		if effect.Defeated {
			ctx.World.BroadcastToRoom(outcome.Room, game.Event{
				Kind: game.EventDeath,
				Text: fmt.Sprintf("%s falls to %s's %s!", effect.Name, outcome.Caster, outcome.Spell.Name),
			}, ctx.Player)
		}
	}
}
