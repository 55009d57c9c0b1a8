package commands

import (
	"errors"
	"fmt"
	"strings"

	"Emberveil/internal/game"
)

func handleLearn(ctx *Context) bool {
	def, learned, err := ctx.World.LearnSpell(ctx.Player, ctx.Intent.Spell)
	if err != nil {
		if errors.Is(err, game.ErrUnknownSpell) {
			ctx.Reply(game.Failure("No such spell exists."))
		} else {
			ctx.Reply(game.Failure(err.Error()))
		}
		return false
	}
	if !learned {
		ctx.Reply(game.Info(fmt.Sprintf("You already know %s.", def.Name)))
		return false
	}
	ctx.Reply(game.Info(fmt.Sprintf("You learn %s. %s", def.Name, def.Description)))
	return false
}

func handleSpells(ctx *Context) bool {
	snap, err := ctx.World.Snapshot(ctx.Player)
	if err != nil {
		ctx.Reply(game.Failure(err.Error()))
		return false
	}
	if len(snap.Spells) == 0 {
		ctx.Reply(game.Info("Your spellbook is empty. Use 'learn <spell>'."))
		return false
	}
	var b strings.Builder
	b.WriteString("Your spellbook:")
	for _, name := range snap.Spells {
		def, ok := ctx.World.Spell(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n  %s (%d mana, %s) - %s", def.Name, def.ManaCost, def.Kind, def.Description)
	}
	ctx.Reply(game.Info(b.String()))
	return false
}
