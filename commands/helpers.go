package commands

import (
	"fmt"

	"Emberveil/internal/game"
)

const experiencePerKillLevel = 25

// awardKill grants kill experience scaled by the victim's level and announces
// any level gained.
func awardKill(ctx *Context, victimLevel int) {
	if victimLevel < 1 {
		victimLevel = 1
	}
	xp := victimLevel * experiencePerKillLevel
	levels := ctx.World.AwardExperience(ctx.Player, xp)
	ctx.Reply(game.Info(fmt.Sprintf("You gain %d experience.", xp)))
	if levels > 0 {
		snap, err := ctx.World.Snapshot(ctx.Player)
		if err != nil {
			return
		}
		ctx.Reply(game.Event{
			Kind: game.EventSystem,
			Text: fmt.Sprintf("You have reached level %d! You feel restored.", snap.Level),
		})
	}
}
