package engine

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if engine.GetConfig() != config {
		t.Error("Engine config mismatch")
	}
	if engine.GetBoard().Size() != config.Size {
		t.Errorf("Expected board size %d, got %d", config.Size, engine.GetBoard().Size())
	}
	if engine.IsGameOver() {
		t.Error("New engine should not be game over")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Size = 0

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
	if _, err := NewEngine(nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if _, err := NewEngineWithSource(createTestConfig(), nil); err == nil {
		t.Error("Expected error for nil random source")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults()
	if engine.GetConfig().Name != "classic" {
		t.Errorf("Expected classic config, got %s", engine.GetConfig().Name)
	}
	if engine.GetBoard().Size() != DefaultSize {
		t.Errorf("Expected size %d, got %d", DefaultSize, engine.GetBoard().Size())
	}
}

func TestEngine_StartSpawnsTwoTiles(t *testing.T) {
	source := &scriptedSource{answers: []int{0, 0, 14, 1}}
	engine, err := NewEngineWithSource(createTestConfig(), source)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	state := engine.Start()

	if engine.GetBoard().TileCount() != InitialSpawns {
		t.Fatalf("Expected %d tiles after start, got %d", InitialSpawns, engine.GetBoard().TileCount())
	}
	if engine.GetBoard().Cells()[0] != 2 {
		t.Errorf("Expected a 2 in cell 0, got %d", engine.GetBoard().Cells()[0])
	}
	// Cell 0 is taken, so empty slot 14 is cell 15.
	if engine.GetBoard().Cells()[15] != 4 {
		t.Errorf("Expected a 4 in cell 15, got %d", engine.GetBoard().Cells()[15])
	}
	if state.EmptyCells != 14 || state.Score != 4 {
		t.Errorf("Unexpected start state: %+v", state)
	}
}

func TestEngine_StartFromLayout(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{
		"2 2 - -",
		"- - - -",
		"- - 16 -",
		"- - - -",
	}
	source := &scriptedSource{}
	engine, err := NewEngineWithSource(config, source)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	engine.Start()

	if engine.GetBoard().TileCount() != 3 {
		t.Errorf("Expected layout tiles only, got %v", engine.GetBoard().Cells())
	}
	if len(source.bounds) != 0 {
		t.Error("Layout start should not spawn random tiles")
	}
	if engine.GetBoard().PrintWidth() != 2 {
		t.Errorf("Expected printwidth 2 from layout, got %d", engine.GetBoard().PrintWidth())
	}
}

func TestEngine_MoveSpawnsOnChange(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{
		"2 2 - 2",
		"- - - -",
		"- - - -",
		"- - - -",
	}
	engine, _ := NewEngineWithSource(config, &scriptedSource{answers: []int{0, 0}})
	engine.Start()

	outcome := engine.Move(Left)

	if outcome.Fallen != 2 {
		t.Errorf("Expected fallen 2, got %d", outcome.Fallen)
	}
	if outcome.Merged != 1 {
		t.Errorf("Expected 1 merge, got %d", outcome.Merged)
	}
	// After the move cells 2 and up are empty; the first is chosen.
	if outcome.SpawnedAt != 2 {
		t.Errorf("Expected spawn at cell 2, got %d", outcome.SpawnedAt)
	}
	if got := engine.GetBoard().Rows()[0]; !reflect.DeepEqual(got, []uint32{4, 2, 2, 0}) {
		t.Errorf("Unexpected first row %v", got)
	}
	if engine.GetTotalMoves() != 1 || !reflect.DeepEqual(engine.GetMoveHistory(), []Direction{Left}) {
		t.Errorf("Expected one recorded move, got %d %v", engine.GetTotalMoves(), engine.GetMoveHistory())
	}
}

func TestEngine_NoChangeDoesNotSpawn(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{
		"2 4 - -",
		"- - - -",
		"- - - -",
		"- - - -",
	}
	source := &scriptedSource{}
	engine, _ := NewEngineWithSource(config, source)
	engine.Start()

	outcome := engine.Move(Left)

	if outcome.Changed() || outcome.SpawnedAt != NoSpawn {
		t.Errorf("Expected no change and no spawn, got %+v", outcome)
	}
	if outcome.GameOver || engine.IsGameOver() {
		t.Error("Board with empty cells is not lost")
	}
	if len(source.bounds) != 0 {
		t.Error("Random source consulted for a no-op move")
	}
	if engine.GetTotalMoves() != 0 {
		t.Errorf("No-op moves are not counted, got %d", engine.GetTotalMoves())
	}
}

func TestEngine_LazyLossCondition(t *testing.T) {
	config := createTestConfig()
	config.Size = 2
	config.Layout = []string{
		"2 2",
		"4 8",
	}
	engine, _ := NewEngineWithSource(config, &scriptedSource{})
	engine.Start()

	if !engine.CanMove(Left) {
		t.Fatal("Left should still merge the top row")
	}

	// Up changes nothing on a full board, so the game ends even though Left could merge.
	outcome := engine.Move(Up)

	if !outcome.GameOver || !engine.IsGameOver() {
		t.Fatal("Expected the game to be lost")
	}
	if engine.GetScore() != 8 {
		t.Errorf("Expected score 8, got %d", engine.GetScore())
	}

	after := engine.Move(Left)
	if !after.GameOver || after.Changed() {
		t.Errorf("Moves after game over must be ignored, got %+v", after)
	}
	if engine.CanMove(Left) || engine.GetPossibleMoves() != nil {
		t.Error("No moves are possible once the game is over")
	}
}

func TestEngine_Reset(t *testing.T) {
	config := createTestConfig()
	config.Size = 2
	config.Layout = []string{
		"2 4",
		"8 16",
	}
	engine, _ := NewEngineWithSource(config, &scriptedSource{})
	engine.Start()
	engine.Move(Up)
	if !engine.IsGameOver() {
		t.Fatal("Expected game over before reset")
	}

	state := engine.Reset()

	if state.GameOver || engine.IsGameOver() {
		t.Error("Reset should clear game over")
	}
	if state.TotalMoves != 0 || len(state.LastMoves) != 0 {
		t.Errorf("Reset should clear history, got %+v", state)
	}
	if !reflect.DeepEqual(state.Rows, [][]uint32{{2, 4}, {8, 16}}) {
		t.Errorf("Reset should restore the layout, got %v", state.Rows)
	}
}

func TestEngine_GetState(t *testing.T) {
	config := createTestConfig()
	config.Size = 2
	config.Layout = []string{
		"2 -",
		"- 32",
	}
	engine, _ := NewEngineWithSource(config, &scriptedSource{})
	engine.Start()

	state := engine.GetState()

	if state.Size != 2 || state.Score != 32 || state.EmptyCells != 2 || state.PrintWidth != 2 {
		t.Errorf("Unexpected state %+v", state)
	}
	if state.ConfigName != config.Name {
		t.Errorf("Expected config name %s, got %s", config.Name, state.ConfigName)
	}
	if !strings.HasPrefix(state.Rendered, " 2  - \n") {
		t.Errorf("Unexpected rendering %q", state.Rendered)
	}

	// Snapshots are copies.
	state.Rows[0][0] = 1024
	if engine.GetBoard().Cell(0, 0) != 2 {
		t.Error("Mutating a snapshot changed the board")
	}
}

func TestEngine_HistoryIsBounded(t *testing.T) {
	engine := NewEngineWithDefaults()
	for i := 0; i < MaxHistorySize+5; i++ {
		engine.record(AllDirections[i%4])
	}

	if engine.GetTotalMoves() != MaxHistorySize+5 {
		t.Errorf("Expected %d total moves, got %d", MaxHistorySize+5, engine.GetTotalMoves())
	}
	history := engine.GetMoveHistory()
	if len(history) != MaxHistorySize {
		t.Fatalf("Expected history of %d, got %d", MaxHistorySize, len(history))
	}
	// The 5 oldest entries were dropped.
	if history[0] != AllDirections[5%4] {
		t.Errorf("Expected oldest kept entry %s, got %s", AllDirections[5%4], history[0])
	}
}
