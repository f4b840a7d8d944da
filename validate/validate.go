// Package validate checks preset JSON files before they are played. Beyond
// the structural checks of engine.ValidateGameConfig it rejects unknown
// fields and starting layouts that can never change.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/tilemerge/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// ValidateFile loads and validates a single preset file
func ValidateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	result.info("Board: %dx%d", config.Size, config.Size)
	result.info("Bindings: %s", describeBindings(&config))

	if len(config.Layout) == 0 {
		result.info("Start: %d random tiles", engine.InitialSpawns)
		return result
	}

	validateLayout(&config, &result)
	return result
}

// validateLayout rejects starting positions in which no move can ever change the board
func validateLayout(config *engine.GameConfig, result *ValidationResult) {
	cells, err := engine.ParseLayout(config.Layout, config.Size)
	if err != nil {
		result.fail("%v", err)
		return
	}

	board, err := engine.NewBoard(config.Size)
	if err != nil {
		result.fail("%v", err)
		return
	}
	if err := engine.ApplyLayout(board, cells); err != nil {
		result.fail("%v", err)
		return
	}

	moves := engine.PossibleMoves(board)
	if len(moves) == 0 {
		result.fail("Layout is already lost: no move changes the board")
		return
	}

	names := make([]string, len(moves))
	for i, dir := range moves {
		names[i] = dir.String()
	}
	result.info("Start: fixed layout with %d tiles, max %d", board.TileCount(), board.MaxValue())
	result.info("Opening moves: %s", strings.Join(names, ", "))
}

func describeBindings(config *engine.GameConfig) string {
	keys := make(map[engine.Direction][]string)
	for key, dir := range engine.Bindings(config) {
		keys[dir] = append(keys[dir], key)
	}

	parts := make([]string, 0, len(engine.AllDirections))
	for _, dir := range engine.AllDirections {
		sort.Strings(keys[dir])
		parts = append(parts, fmt.Sprintf("%s=%s", dir, strings.Join(keys[dir], ",")))
	}
	return strings.Join(parts, " ")
}

// ValidateDir validates every *.json file in dir, sorted by name
func ValidateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding config files: %w", err)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}

// Report prints a concise report and returns whether every result is valid
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}
