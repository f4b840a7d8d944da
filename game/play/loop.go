package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/wricardo/tilemerge/game/engine"
)

// Outcome says how an interactive game ended
type Outcome int

const (
	// OutcomeQuit means the player left: an unbound key, end of input or cancellation
	OutcomeQuit Outcome = iota
	// OutcomeLost means a move changed nothing on a full board
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeQuit:
		return "quit"
	case OutcomeLost:
		return "lost"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// InputSource delivers one key per call. Keys are single characters or the
// named keys engine.KeyArrowUp and friends.
type InputSource interface {
	ReadKey(ctx context.Context) (string, error)
}

// Display shows a board snapshot together with a one-line status
type Display interface {
	Show(state *engine.GameState, status string) error
}

// Chime is told how many tiles a move merged
type Chime interface {
	Merge(count int)
}

// Result summarises a finished game
type Result struct {
	Outcome Outcome
	Score   uint32
	Moves   int
	State   *engine.GameState
}

// Loop drives one interactive game: read a key, move, spawn, redraw
type Loop struct {
	engine   *engine.GameEngine
	bindings map[string]engine.Direction
	input    InputSource
	display  Display
	chime    Chime
	logger   *log.Logger
}

// Option configures a Loop
type Option func(*Loop)

// WithChime plays c whenever a move merges tiles
func WithChime(c Chime) Option {
	return func(l *Loop) { l.chime = c }
}

// WithLogger sends per-move debug lines to logger
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// NewLoop binds eng to a key source and a display using the key bindings of
// the engine's preset
func NewLoop(eng *engine.GameEngine, input InputSource, display Display, opts ...Option) (*Loop, error) {
	if eng == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if input == nil || display == nil {
		return nil, errors.New("input and display are required")
	}

	l := &Loop{
		engine:   eng,
		bindings: engine.Bindings(eng.GetConfig()),
		input:    input,
		display:  display,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run plays a game from a fresh board until the player quits or loses
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	state := l.engine.Start()
	if err := l.display.Show(state, l.status()); err != nil {
		return nil, fmt.Errorf("display failed: %w", err)
	}

	for {
		if ctx.Err() != nil {
			return l.finish(OutcomeQuit), nil
		}

		key, err := l.input.ReadKey(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return l.finish(OutcomeQuit), nil
			}
			return nil, fmt.Errorf("read key: %w", err)
		}

		dir, ok := l.bindings[key]
		if !ok {
			l.logger.Printf("key %q is not bound, quitting", key)
			return l.finish(OutcomeQuit), nil
		}

		outcome := l.engine.Move(dir)
		l.logger.Printf("move %s: fallen=%d merged=%d spawned=%d", dir, outcome.Fallen, outcome.Merged, outcome.SpawnedAt)

		if outcome.Changed() {
			if outcome.Merged > 0 && l.chime != nil {
				l.chime.Merge(outcome.Merged)
			}
			if err := l.display.Show(l.engine.GetState(), l.status()); err != nil {
				return nil, fmt.Errorf("display failed: %w", err)
			}
			continue
		}

		if outcome.GameOver {
			result := l.finish(OutcomeLost)
			if err := l.display.Show(result.State, LossMessage(result.Score)); err != nil {
				return nil, fmt.Errorf("display failed: %w", err)
			}
			return result, nil
		}
	}
}

func (l *Loop) status() string {
	return fmt.Sprintf("Score: %d  Moves: %d", l.engine.GetScore(), l.engine.GetTotalMoves())
}

func (l *Loop) finish(outcome Outcome) *Result {
	return &Result{
		Outcome: outcome,
		Score:   l.engine.GetScore(),
		Moves:   l.engine.GetTotalMoves(),
		State:   l.engine.GetState(),
	}
}

// LossMessage is the line shown when a game is lost
func LossMessage(score uint32) string {
	return fmt.Sprintf("You lose! Score: %d", score)
}
