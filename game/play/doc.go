// Package play runs games: interactively through a Loop bound to a key
// source and a display, or unattended through Simulate.
//
// A Loop starts a fresh game, then repeatedly reads a key, maps it through
// the preset's key bindings and moves. A key without a binding ends the game
// as a quit. A move that changes nothing on a full board ends it as a loss,
// even when another direction could still merge.
//
// Usage:
//
//	loop, err := play.NewLoop(eng, screen, screen, play.WithChime(chime))
//	result, err := loop.Run(ctx)
//	if result.Outcome == play.OutcomeLost {
//		fmt.Println(play.LossMessage(result.Score))
//	}
package play
