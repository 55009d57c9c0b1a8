package commands

import (
	"strings"

	"Emberveil/internal/game"
)

func handleInventory(ctx *Context) bool {
	snap, err := ctx.World.Snapshot(ctx.Player)
	if err != nil {
		ctx.Reply(game.Failure(err.Error()))
		return false
	}
	if len(snap.Inventory) == 0 {
		ctx.Reply(game.Info("You are carrying nothing."))
		return false
	}
	names := make([]string, 0, len(snap.Inventory))
	for _, id := range snap.Inventory {
		if def, ok := ctx.World.ItemDefinition(id); ok {
			names = append(names, def.Name)
		} else {
			names = append(names, id)
		}
	}
	ctx.Reply(game.Info("You are carrying: " + strings.Join(names, ", ")))
	return false
}
