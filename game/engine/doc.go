// Package engine provides the core game logic for the tile merge game.
//
// The engine package implements:
//   - The square Board and its row-major cell storage
//   - Random tile spawning from an injected source
//   - Move processing: per-lane merge and compaction passes
//   - Fixed-width text rendering of a board
//   - Preset validation and layout parsing
//
// Core Types:
//
// Board holds the grid. ProcessMove and SpawnRandom are the two mutating
// operations on it. GameEngine ties a Board to a GameConfig and a
// RandomSource and implements the Engine interface used by the session,
// service and play layers.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Start()
//	outcome := gameEngine.Move(engine.Left)
//	fmt.Print(engine.Render(gameEngine.GetBoard()))
//
// Game Rules:
//
// Every move pushes all tiles towards one edge. Two equal tiles that meet
// merge into one tile of double value; a tile merges at most once per move.
// After any move that changed the board a 2 or a 4 appears on a random empty
// cell. The game is lost when a move changes nothing and no cell is empty.
// That check does not look for merges still available in other directions.
// The score is the largest tile on the board.
package engine
