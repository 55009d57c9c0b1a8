package commands

import (
	"fmt"
	"strings"

	"Emberveil/internal/game"
)

func handleWho(ctx *Context) bool {
	names := ctx.World.ListPlayers(false, "")
	var b strings.Builder
	fmt.Fprintf(&b, "Connected adventurers (%d):", len(names))
	for _, name := range names {
		b.WriteString("\n  ")
		b.WriteString(name)
		if name == ctx.Player.Name {
			b.WriteString(" (you)")
		}
	}
	ctx.Reply(game.Info(b.String()))
	return false
}
