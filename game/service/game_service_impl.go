package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/tilemerge/game/engine"
)

// MaxBulkMoves caps the moves processed by a single BulkMove call
const MaxBulkMoves = 100

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given preset display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session and starts its game
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	outcome := sess.Engine.Move(dir)
	state := sess.Engine.GetState()

	return &MoveResult{
		Success:   outcome.Changed(),
		Outcome:   outcome,
		GameState: state,
		Message:   moveMessage(outcome, state.Score),
		Events:    append(events, moveEvents(outcome, state.Score)...),
	}, nil
}

// BulkMove executes moves in order, stopping at an invalid direction or when the game is lost
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         []GameEvent{},
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	if len(moves) > MaxBulkMoves {
		moves = moves[:MaxBulkMoves]
		result.Truncated = true
		result.Limit = MaxBulkMoves
	}

	result.StartScore = sess.Engine.GetScore()

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if sess.Engine.IsGameOver() {
			result.StoppedReason = "Game is already over"
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.StoppedReason = err.Error()
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		outcome := sess.Engine.Move(dir)
		result.MovesExecuted++
		result.Merged += outcome.Merged
		if outcome.Changed() {
			result.Changed++
		}
		result.Events = append(result.Events, moveEvents(outcome, sess.Engine.GetScore())...)

		if outcome.GameOver {
			result.StoppedReason = moveMessage(outcome, sess.Engine.GetScore())
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndScore = state.Score
	result.GameOver = state.GameOver
	result.Success = result.StopReasonCode != "invalid_direction"
	for _, dir := range sess.Engine.GetPossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, dir.String())
	}

	switch {
	case state.GameOver:
		result.Message = fmt.Sprintf("You lose! Score: %d", state.Score)
	case result.StoppedReason != "":
		result.Message = fmt.Sprintf("Stopped on move %d: %s", result.StoppedOnMove, result.StoppedReason)
	default:
		result.Message = fmt.Sprintf("Executed %d moves, %d changed the board", result.MovesExecuted, result.Changed)
	}

	return result, nil
}

// Reset starts a fresh game in the session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	switch opts.Order {
	case "":
		opts.Order = "desc"
	case "asc", "desc":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrder, opts.Order)
	}

	history := sess.Engine.GetMoveHistory()
	retained := len(history)
	// Older moves beyond the engine's history bound are gone.
	offset := sess.Engine.GetTotalMoves() - retained

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	totalPages := (retained + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > retained {
		end = retained
	}

	moves := []HistoryEntry{}
	for i := start; i < end; i++ {
		pos := i
		if opts.Order == "desc" {
			pos = retained - 1 - i
		}
		moves = append(moves, HistoryEntry{Index: offset + pos + 1, Direction: history[pos]})
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  sess.Engine.GetTotalMoves(),
		Retained:    retained,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

func moveMessage(outcome engine.MoveOutcome, score uint32) string {
	switch {
	case outcome.GameOver:
		return fmt.Sprintf("You lose! Score: %d", score)
	case outcome.Changed():
		return fmt.Sprintf("Moved %s: %d fell, %d merged", outcome.Direction, outcome.Fallen, outcome.Merged)
	default:
		return fmt.Sprintf("Nothing moved %s", outcome.Direction)
	}
}

func moveEvents(outcome engine.MoveOutcome, score uint32) []GameEvent {
	now := time.Now()
	var events []GameEvent

	if outcome.Changed() {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s", outcome.Direction),
			Timestamp: now,
		})
	}
	if outcome.Merged > 0 {
		events = append(events, GameEvent{
			Type:      "merge",
			Message:   fmt.Sprintf("%d tiles merged", outcome.Merged),
			Timestamp: now,
		})
	}
	if outcome.SpawnedAt != engine.NoSpawn {
		cell := outcome.SpawnedAt
		events = append(events, GameEvent{
			Type:      "spawn",
			Message:   fmt.Sprintf("New tile at cell %d", outcome.SpawnedAt),
			Timestamp: now,
			Cell:      &cell,
		})
	}
	if outcome.GameOver {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   fmt.Sprintf("You lose! Score: %d", score),
			Timestamp: now,
		})
	}
	return events
}
