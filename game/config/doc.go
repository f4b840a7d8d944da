// Package config provides preset management for the tile merge game.
//
// The config package handles:
//   - Loading game presets from JSON files
//   - Preset validation through the engine package
//   - Built-in presets when no file provides a name
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are JSON files in the config directory. Each preset defines:
//   - The board size
//   - Key bindings from a single character (or <up>, <down>, <left>,
//     <right>) to a direction
//   - An optional starting layout, one row per string with "-" for empty
//   - An optional RNG seed for reproducible games
//
// Built-in Presets:
//   - classic: 4x4 board with wasd, jkl; and arrow keys
//   - small: 3x3 board
//   - large: 6x6 board
//
// A file with the same name as a built-in preset replaces it.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("large")
//	configs, err := manager.ListConfigs()
package config
