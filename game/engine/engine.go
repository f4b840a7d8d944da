package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	Start() *GameState
	Reset() *GameState
	GetState() *GameState
	IsGameOver() bool
	GetScore() uint32

	// Movement operations
	Move(dir Direction) MoveOutcome
	CanMove(dir Direction) bool
	GetPossibleMoves() []Direction

	// Board and configuration
	GetBoard() *Board
	GetConfig() *GameConfig

	// History
	GetTotalMoves() int
	GetMoveHistory() []Direction
}

// GameEngine implements the Engine interface. It owns one board and spawns
// onto it from a single random source; it is not safe for concurrent use.
type GameEngine struct {
	board      *Board
	config     *GameConfig
	layout     []uint32
	rng        RandomSource
	gameOver   bool
	totalMoves int
	history    []Direction
}

// NewEngine creates a game engine seeded from config.Seed (clock-seeded when zero)
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return NewEngineWithSource(config, NewRandomSource(config.Seed))
}

// NewEngineWithSource creates a game engine that spawns tiles using rng
func NewEngineWithSource(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}

	var layout []uint32
	if len(config.Layout) > 0 {
		parsed, err := ParseLayout(config.Layout, config.Size)
		if err != nil {
			return nil, err
		}
		layout = parsed
	}

	board, err := NewBoard(config.Size)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		board:  board,
		config: config,
		layout: layout,
		rng:    rng,
	}, nil
}

// NewEngineWithDefaults creates a game engine on the classic preset
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultGameConfig())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return e
}

// Start clears the board and lays out the opening position: the configured
// layout if there is one, otherwise two random tiles.
func (e *GameEngine) Start() *GameState {
	e.board.Reset()
	e.gameOver = false
	e.totalMoves = 0
	e.history = e.history[:0]

	if e.layout != nil {
		// ParseLayout already sized the layout to the board.
		_ = ApplyLayout(e.board, e.layout)
	} else {
		for i := 0; i < InitialSpawns; i++ {
			SpawnRandom(e.board, e.rng)
		}
	}
	return e.GetState()
}

// Reset starts a fresh game on the same board
func (e *GameEngine) Reset() *GameState {
	return e.Start()
}

// Move pushes the tiles towards dir. When anything fell a new tile is
// spawned. When nothing fell and the board has no empty cell the game is
// lost, even if a move in another direction could still merge tiles.
func (e *GameEngine) Move(dir Direction) MoveOutcome {
	outcome := MoveOutcome{Direction: dir, SpawnedAt: NoSpawn}
	if e.gameOver {
		outcome.GameOver = true
		return outcome
	}

	before := e.board.TileCount()
	outcome.Fallen = ProcessMove(e.board, dir)
	outcome.Merged = before - e.board.TileCount()

	if outcome.Changed() {
		if idx, ok := SpawnRandom(e.board, e.rng); ok {
			outcome.SpawnedAt = idx
		}
		e.record(dir)
	} else if len(e.board.EmptyCells()) == 0 {
		e.gameOver = true
	}

	outcome.GameOver = e.gameOver
	return outcome
}

// CanMove reports whether dir would change the board
func (e *GameEngine) CanMove(dir Direction) bool {
	if e.gameOver {
		return false
	}
	return CanMove(e.board, dir)
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []Direction {
	if e.gameOver {
		return nil
	}
	return PossibleMoves(e.board)
}

// IsGameOver returns whether the game has been lost
func (e *GameEngine) IsGameOver() bool {
	return e.gameOver
}

// GetScore returns the largest tile on the board
func (e *GameEngine) GetScore() uint32 {
	return e.board.MaxValue()
}

// GetBoard returns the board the engine mutates
func (e *GameEngine) GetBoard() *Board {
	return e.board
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetTotalMoves returns the number of board-changing moves since Start
func (e *GameEngine) GetTotalMoves() int {
	return e.totalMoves
}

// GetMoveHistory returns the most recent board-changing directions, oldest first
func (e *GameEngine) GetMoveHistory() []Direction {
	out := make([]Direction, len(e.history))
	copy(out, e.history)
	return out
}

// GetState returns a snapshot of the current game
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Size:       e.board.Size(),
		Rows:       e.board.Rows(),
		PrintWidth: e.board.PrintWidth(),
		Score:      e.board.MaxValue(),
		EmptyCells: len(e.board.EmptyCells()),
		GameOver:   e.gameOver,
		TotalMoves: e.totalMoves,
		ConfigName: e.config.Name,
		Rendered:   Render(e.board),
		LastMoves:  e.GetMoveHistory(),
	}
}

// record appends dir to the bounded history
func (e *GameEngine) record(dir Direction) {
	e.totalMoves++
	if len(e.history) == MaxHistorySize {
		copy(e.history, e.history[1:])
		e.history = e.history[:MaxHistorySize-1]
	}
	e.history = append(e.history, dir)
}
