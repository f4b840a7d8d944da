package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Named keys that frontends report for non-character keys
const (
	KeyArrowUp    = "<up>"
	KeyArrowDown  = "<down>"
	KeyArrowLeft  = "<left>"
	KeyArrowRight = "<right>"
)

var namedKeys = map[string]bool{
	KeyArrowUp:    true,
	KeyArrowDown:  true,
	KeyArrowLeft:  true,
	KeyArrowRight: true,
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Size < MinBoardSize || config.Size > MaxBoardSize {
		return fmt.Errorf("config validation: size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Size)
	}

	if len(config.KeyBindings) == 0 {
		return fmt.Errorf("config validation: key_bindings must map at least one key")
	}
	bound := make(map[Direction]bool)
	for key, dirName := range config.KeyBindings {
		if utf8.RuneCountInString(key) != 1 && !namedKeys[key] {
			return fmt.Errorf("config validation: key %q must be a single character or one of <up>, <down>, <left>, <right>", key)
		}
		dir, err := ParseDirection(dirName)
		if err != nil {
			return fmt.Errorf("config validation: key %q: %v", key, err)
		}
		bound[dir] = true
	}
	for _, dir := range AllDirections {
		if !bound[dir] {
			return fmt.Errorf("config validation: no key bound to %s", dir)
		}
	}

	if len(config.Layout) > 0 {
		cells, err := ParseLayout(config.Layout, config.Size)
		if err != nil {
			return fmt.Errorf("config validation: %v", err)
		}
		if !hasTile(cells) {
			return fmt.Errorf("config validation: layout has no tiles, so no move can ever change the board")
		}
	}

	return nil
}

// ParseLayout reads a starting position: one string per row, cells separated
// by whitespace, "-" or "0" for empty. Tiles must be powers of two from 2 up.
func ParseLayout(layout []string, size int) ([]uint32, error) {
	if len(layout) != size {
		return nil, fmt.Errorf("layout must have %d rows to match size, got %d", size, len(layout))
	}

	cells := make([]uint32, 0, size*size)
	for i, row := range layout {
		fields := strings.Fields(row)
		if len(fields) != size {
			return nil, fmt.Errorf("row %d must have %d cells to match size, got %d", i+1, size, len(fields))
		}
		for j, field := range fields {
			if field == EmptyGlyph {
				cells = append(cells, 0)
				continue
			}
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid cell %q at row %d, col %d", field, i+1, j+1)
			}
			if v != 0 && (v < 2 || v&(v-1) != 0) {
				return nil, fmt.Errorf("cell %d at row %d, col %d is not a power of two", v, i+1, j+1)
			}
			cells = append(cells, uint32(v))
		}
	}
	return cells, nil
}

func hasTile(cells []uint32) bool {
	for _, v := range cells {
		if v != 0 {
			return true
		}
	}
	return false
}

// ApplyLayout writes a parsed layout onto the board, widening printwidth as needed
func ApplyLayout(b *Board, cells []uint32) error {
	if len(cells) != len(b.cells) {
		return fmt.Errorf("layout has %d cells, board has %d", len(cells), len(b.cells))
	}
	for i, v := range cells {
		b.cells[i] = v
		b.widen(v)
	}
	return nil
}

// Bindings converts the configured key map into directions.
// The config is assumed to be valid; unparseable entries are skipped.
func Bindings(config *GameConfig) map[string]Direction {
	bindings := make(map[string]Direction, len(config.KeyBindings))
	for key, dirName := range config.KeyBindings {
		if dir, err := ParseDirection(dirName); err == nil {
			bindings[key] = dir
		}
	}
	return bindings
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the classic 4x4 preset with wasd and jkl; bindings plus the arrow keys
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Classic 4x4 board",
		Size:        DefaultSize,
		KeyBindings: map[string]string{
			"w": "up",
			"a": "left",
			"s": "down",
			"d": "right",
			"l": "up",
			"j": "left",
			"k": "down",
			";": "right",

			KeyArrowUp:    "up",
			KeyArrowDown:  "down",
			KeyArrowLeft:  "left",
			KeyArrowRight: "right",
		},
	}
}
