package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four ways tiles can be pushed
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

const (
	// Validation constants
	MinBoardSize   = 1
	MaxBoardSize   = 12
	DefaultSize    = 4
	InitialSpawns  = 2
	NoSpawn        = -1
	MaxHistorySize = 1000
)

var (
	ErrInvalidSize      = errors.New("invalid board size")
	ErrInvalidDirection = errors.New("invalid direction")
)

// AllDirections lists the directions in declaration order
var AllDirections = []Direction{Up, Down, Left, Right}

// String returns the lowercase name used by textual surfaces
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four declared directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection maps "up", "down", "left" or "right" (any case) to a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText lets directions appear by name in JSON
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GameConfig represents a game preset loaded from JSON
type GameConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Size        int               `json:"size"`
	KeyBindings map[string]string `json:"key_bindings"`
	Layout      []string          `json:"layout,omitempty"`
	Seed        int64             `json:"seed,omitempty"`
}

// MoveOutcome describes what a single Move did to the board
type MoveOutcome struct {
	Direction Direction `json:"direction"`
	Fallen    int       `json:"fallen"`
	Merged    int       `json:"merged"`
	SpawnedAt int       `json:"spawned_at"`
	GameOver  bool      `json:"game_over"`
}

// Changed reports whether the board was altered by the move
func (o MoveOutcome) Changed() bool {
	return o.Fallen > 0
}

// GameState is a JSON-friendly snapshot of a running game
type GameState struct {
	Size       int        `json:"size"`
	Rows       [][]uint32 `json:"rows"`
	PrintWidth int        `json:"print_width"`
	Score      uint32     `json:"score"`
	EmptyCells int        `json:"empty_cells"`
	GameOver   bool       `json:"game_over"`
	TotalMoves int        `json:"total_moves"`
	ConfigName string     `json:"config_name"`
	Rendered   string     `json:"rendered"`

	// LastMoves holds the most recent directions that changed the board, oldest first.
	LastMoves []Direction `json:"last_moves,omitempty"`
}
