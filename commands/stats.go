package commands

import (
	"fmt"
	"strings"

	"Emberveil/internal/game"
)

func handleStats(ctx *Context) bool {
	snap, err := ctx.World.Snapshot(ctx.Player)
	if err != nil {
		ctx.Reply(game.Failure(err.Error()))
		return false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s, level %d\n", snap.Name, snap.Level)
	fmt.Fprintf(&b, "Health: %d/%d  Mana: %d/%d\n", snap.Health, snap.MaxHealth, snap.Mana, snap.MaxMana)
	fmt.Fprintf(&b, "Attack: %d  Defense: %d\n", snap.Attack, snap.Defense)
	fmt.Fprintf(&b, "Experience: %d/%d", snap.Experience, snap.Level*100)
	ctx.Reply(game.Info(b.String()))
	return false
}
