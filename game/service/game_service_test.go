package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/tilemerge/game/engine"
	"github.com/wricardo/tilemerge/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	eng.Start()

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	bindings := map[string]string{"w": "up", "a": "left", "s": "down", "d": "right"}

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"open": {
				Name:        "Open Board",
				Description: "Two mergeable tiles in the corner",
				Size:        4,
				KeyBindings: bindings,
				Layout: []string{
					"2 2 - -",
					"- - - -",
					"- - - -",
					"- - - -",
				},
				Seed: 7,
			},
			"stuck": {
				Name:        "Stuck Board",
				Description: "Full board without merges",
				Size:        2,
				KeyBindings: bindings,
				Layout: []string{
					"2 4",
					"8 16",
				},
				Seed: 7,
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, name)
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Size:        config.Size,
			HasLayout:   len(config.Layout) > 0,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ConfigID < result[j].ConfigID })
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["open"]
}

func newTestService() service.GameService {
	return service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
}

func TestGameService_CreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    string
	}{
		{name: "default config", configName: "", wantConfig: "open"},
		{name: "named config", configName: "stuck", wantConfig: "stuck"},
		{name: "unknown config", configName: "missing", wantErr: "Available configs: [open stuck]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.configName)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if info.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %s, got %s", tt.wantConfig, info.ConfigName)
			}
			if info.GameState == nil || info.GameState.GameOver {
				t.Errorf("Expected a running game, got %+v", info.GameState)
			}
		})
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		configName  string
		direction   string
		wantErr     error
		wantSuccess bool
		wantOver    bool
		wantMessage string
		wantEvents  []string
	}{
		{
			name:        "merge left",
			configName:  "open",
			direction:   "left",
			wantSuccess: true,
			wantMessage: "Moved left: 1 fell, 1 merged",
			wantEvents:  []string{"move", "merge", "spawn"},
		},
		{
			name:        "nothing moves up",
			configName:  "open",
			direction:   "UP",
			wantMessage: "Nothing moved up",
		},
		{
			name:        "full board loses",
			configName:  "stuck",
			direction:   "down",
			wantOver:    true,
			wantMessage: "You lose! Score: 16",
			wantEvents:  []string{"game_over"},
		},
		{
			name:       "invalid direction",
			configName: "open",
			direction:  "sideways",
			wantErr:    engine.ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			info, err := svc.CreateSession(ctx, tt.configName)
			if err != nil {
				t.Fatalf("Failed to create session: %v", err)
			}

			result, err := svc.Move(ctx, info.ID, tt.direction, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if result.Success != tt.wantSuccess {
				t.Errorf("Expected success %v, got %v", tt.wantSuccess, result.Success)
			}
			if result.GameState.GameOver != tt.wantOver {
				t.Errorf("Expected game over %v, got %v", tt.wantOver, result.GameState.GameOver)
			}
			if result.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, result.Message)
			}

			var types []string
			for _, e := range result.Events {
				types = append(types, e.Type)
			}
			if !reflect.DeepEqual(types, tt.wantEvents) {
				t.Errorf("Expected events %v, got %v", tt.wantEvents, types)
			}
		})
	}

	t.Run("unknown session", func(t *testing.T) {
		if _, err := newTestService().Move(ctx, "nope", "left", false); err == nil {
			t.Error("Expected error for unknown session")
		}
	})

	t.Run("reset before move", func(t *testing.T) {
		svc := newTestService()
		info, _ := svc.CreateSession(ctx, "stuck")
		svc.Move(ctx, info.ID, "up", false)

		result, err := svc.Move(ctx, info.ID, "left", true)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Events[0].Type != "reset" {
			t.Errorf("Expected reset event first, got %v", result.Events)
		}
		// The reset board is still stuck, so the move loses again.
		if !result.GameState.GameOver {
			t.Error("Expected game over after reset and a no-op move")
		}
	})
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		configName   string
		moves        []string
		wantExecuted int
		wantStopCode string
		wantStopOn   int
		wantSuccess  bool
		wantTrunc    bool
	}{
		{
			name:         "stops at game over",
			configName:   "stuck",
			moves:        []string{"left", "up", "down"},
			wantExecuted: 1,
			wantStopCode: "game_over",
			wantStopOn:   1,
			wantSuccess:  true,
		},
		{
			name:         "stops at invalid direction",
			configName:   "open",
			moves:        []string{"left", "sideways", "up"},
			wantExecuted: 1,
			wantStopCode: "invalid_direction",
			wantStopOn:   2,
		},
		{
			name:         "all moves run",
			configName:   "open",
			moves:        []string{"left", "right"},
			wantExecuted: 2,
			wantSuccess:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			info, _ := svc.CreateSession(ctx, tt.configName)

			result, err := svc.BulkMove(ctx, info.ID, tt.moves, false)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if result.MovesExecuted != tt.wantExecuted {
				t.Errorf("Expected %d moves executed, got %d", tt.wantExecuted, result.MovesExecuted)
			}
			if result.StopReasonCode != tt.wantStopCode {
				t.Errorf("Expected stop code %q, got %q", tt.wantStopCode, result.StopReasonCode)
			}
			if result.StoppedOnMove != tt.wantStopOn {
				t.Errorf("Expected stop on move %d, got %d", tt.wantStopOn, result.StoppedOnMove)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Expected success %v, got %v", tt.wantSuccess, result.Success)
			}
			if result.RequestedMoves != len(tt.moves) {
				t.Errorf("Expected %d requested moves, got %d", len(tt.moves), result.RequestedMoves)
			}
		})
	}

	t.Run("truncated", func(t *testing.T) {
		svc := newTestService()
		info, _ := svc.CreateSession(ctx, "open")

		moves := make([]string, service.MaxBulkMoves+50)
		for i := range moves {
			moves[i] = []string{"left", "down", "right", "up"}[i%4]
		}

		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !result.Truncated || result.Limit != service.MaxBulkMoves {
			t.Errorf("Expected truncation at %d, got %+v", service.MaxBulkMoves, result)
		}
		if result.MovesExecuted > service.MaxBulkMoves {
			t.Errorf("Executed %d moves beyond the limit", result.MovesExecuted)
		}
		if result.EndScore < result.StartScore {
			t.Errorf("Score went down from %d to %d", result.StartScore, result.EndScore)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := newTestService()
		info, _ := svc.CreateSession(ctx, "open")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := svc.BulkMove(cancelled, info.ID, []string{"left"}, false); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	info, _ := svc.CreateSession(ctx, "open")

	// Left merges the corner pair and right slides the 4 back across.
	svc.Move(ctx, info.ID, "left", false)
	svc.Move(ctx, info.ID, "right", false)

	tests := []struct {
		name     string
		opts     service.HistoryOptions
		want     []service.HistoryEntry
		wantNext bool
		wantPrev bool
	}{
		{
			name: "default order is newest first",
			opts: service.HistoryOptions{},
			want: []service.HistoryEntry{
				{Index: 2, Direction: engine.Right},
				{Index: 1, Direction: engine.Left},
			},
		},
		{
			name: "ascending",
			opts: service.HistoryOptions{Order: "asc"},
			want: []service.HistoryEntry{
				{Index: 1, Direction: engine.Left},
				{Index: 2, Direction: engine.Right},
			},
		},
		{
			name:     "second page",
			opts:     service.HistoryOptions{Page: 2, Limit: 1, Order: "asc"},
			want:     []service.HistoryEntry{{Index: 2, Direction: engine.Right}},
			wantPrev: true,
		},
		{
			name: "past the end",
			opts: service.HistoryOptions{Page: 5, Limit: 1},
			want: []service.HistoryEntry{},
			wantPrev: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(history.Moves, tt.want) {
				t.Errorf("Expected moves %v, got %v", tt.want, history.Moves)
			}
			if history.TotalMoves != 2 {
				t.Errorf("Expected 2 total moves, got %d", history.TotalMoves)
			}
			if history.HasNext != tt.wantNext || history.HasPrevious != tt.wantPrev {
				t.Errorf("Unexpected paging flags next=%v prev=%v", history.HasNext, history.HasPrevious)
			}
		})
	}
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, _ := svc.CreateSession(ctx, "open")
	second, _ := svc.CreateSession(ctx, "stuck")

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	ids := map[string]string{}
	for _, s := range sessions {
		ids[s.ID] = s.ConfigName
	}
	if ids[first.ID] != "open" || ids[second.ID] != "stuck" {
		t.Errorf("Unexpected session configs %v", ids)
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := svc.GetSession(ctx, first.ID); err == nil {
		t.Error("Deleted session is still reachable")
	}
	sessions, _ = svc.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session after delete, got %d", len(sessions))
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	info, _ := svc.CreateSession(ctx, "stuck")

	svc.Move(ctx, info.ID, "up", false)
	state, _ := svc.GetGameState(ctx, info.ID)
	if !state.GameOver {
		t.Fatal("Expected game over before reset")
	}

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}
	if state.GameOver {
		t.Error("Reset should start a new game")
	}
	if !reflect.DeepEqual(state.Rows, [][]uint32{{2, 4}, {8, 16}}) {
		t.Errorf("Expected layout restored, got %v", state.Rows)
	}

	if _, err := svc.Reset(ctx, "nope"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestGameService_ListConfigs(t *testing.T) {
	svc := newTestService()

	configs, err := svc.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 || configs[0].ConfigID != "open" || !configs[1].HasLayout {
		t.Errorf("Unexpected configs %+v", configs)
	}

	config, err := svc.LoadConfig(context.Background(), "stuck")
	if err != nil || config.Size != 2 {
		t.Errorf("Expected the stuck preset, got %v %v", config, err)
	}
}

func TestGameService_CreateSessionUnknownConfigIsNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateSession(context.Background(), "missing")
	if !errors.Is(err, service.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestGameService_GetMoveHistoryRejectsUnknownOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	info, _ := svc.CreateSession(ctx, "open")

	for _, order := range []string{"newest", "ASC", "random"} {
		if _, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Order: order}); !errors.Is(err, service.ErrInvalidOrder) {
			t.Errorf("Order %q: expected ErrInvalidOrder, got %v", order, err)
		}
	}
}

func TestGameService_SpawnEventCarriesCell(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	info, _ := svc.CreateSession(ctx, "open")

	result, err := svc.Move(ctx, info.ID, "left", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	var spawn *service.GameEvent
	for i := range result.Events {
		if result.Events[i].Type == "spawn" {
			spawn = &result.Events[i]
		}
	}
	if spawn == nil {
		t.Fatal("Expected a spawn event")
	}
	if spawn.Cell == nil || *spawn.Cell != result.Outcome.SpawnedAt {
		t.Errorf("Expected spawn cell %d, got %v", result.Outcome.SpawnedAt, spawn.Cell)
	}

	for _, e := range result.Events {
		if e.Type != "spawn" && e.Cell != nil {
			t.Errorf("Event %s should not carry a cell", e.Type)
		}
	}
}

func TestGameEvent_JSONKeepsCellZero(t *testing.T) {
	cell := 0
	data, err := json.Marshal(service.GameEvent{Type: "spawn", Cell: &cell})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"cell":0`) {
		t.Errorf("Expected cell 0 in %s", data)
	}

	data, _ = json.Marshal(service.GameEvent{Type: "move"})
	if strings.Contains(string(data), `"cell"`) {
		t.Errorf("Expected no cell in %s", data)
	}
}
