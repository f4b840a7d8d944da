// Package mcp provides the Model Context Protocol server for the tile merge game.
//
// The mcp package implements:
//   - MCP server for AI agent integration over stdio
//   - Tool definitions backed directly by a service.GameService
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create new game session with preset selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - game_state: Get the current board
//   - move: Execute a single move
//   - bulk_move: Execute multiple moves in sequence
//   - reset_game: Start a fresh game in a session
//   - move_history: Retrieve move history with pagination
//   - list_configs: List available presets
//   - game_instructions: Get the rules
//
// Tool failures are returned as error results rather than protocol errors,
// so agents see the message.
//
// Usage:
//
//	server := mcp.NewServer(gameService, version)
//	if err := server.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
