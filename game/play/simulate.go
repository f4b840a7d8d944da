package play

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wricardo/tilemerge/game/engine"
)

// DefaultMaxMoves stops a simulated game that has not been lost yet
const DefaultMaxMoves = 100000

// strategy is tried in order; the first direction that changes the board is played
var strategy = []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up}

// SimulationOptions configures Simulate
type SimulationOptions struct {
	Games    int
	Seed     int64 // game i uses Seed+i; zero seeds every game from the clock
	MaxMoves int
	Workers  int
}

// GameReport is the result of one simulated game
type GameReport struct {
	Game     int    `json:"game"`
	Seed     int64  `json:"seed,omitempty"`
	Score    uint32 `json:"score"`
	Moves    int    `json:"moves"`
	Lost     bool   `json:"lost"`
	Rendered string `json:"rendered"`
}

// Summary aggregates simulated games
type Summary struct {
	Games     []GameReport   `json:"games"`
	Best      uint32         `json:"best"`
	Worst     uint32         `json:"worst"`
	MeanMoves float64        `json:"mean_moves"`
	MaxTiles  map[uint32]int `json:"max_tiles"` // score -> number of games
}

// Simulate plays opts.Games games of config with a fixed direction priority
// and no player input. Games run concurrently; reports keep game order.
func Simulate(ctx context.Context, config *engine.GameConfig, opts SimulationOptions) (*Summary, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if opts.Games < 1 {
		return nil, errors.New("games must be at least 1")
	}
	if opts.MaxMoves <= 0 {
		opts.MaxMoves = DefaultMaxMoves
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	reports := make([]GameReport, opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			seed := int64(0)
			if opts.Seed != 0 {
				seed = opts.Seed + int64(i)
			}
			report, err := simulateGame(ctx, config, seed, opts.MaxMoves)
			if err != nil {
				return err
			}
			report.Game = i + 1
			reports[i] = *report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(reports), nil
}

func simulateGame(ctx context.Context, config *engine.GameConfig, seed int64, maxMoves int) (*GameReport, error) {
	eng, err := engine.NewEngineWithSource(config, engine.NewRandomSource(seed))
	if err != nil {
		return nil, err
	}
	eng.Start()

	// Bounded by attempts: a board without tiles never changes
	for attempt := 0; attempt < maxMoves && !eng.IsGameOver(); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		eng.Move(chooseMove(eng))
	}

	state := eng.GetState()
	return &GameReport{
		Seed:     seed,
		Score:    state.Score,
		Moves:    state.TotalMoves,
		Lost:     state.GameOver,
		Rendered: state.Rendered,
	}, nil
}

// chooseMove returns the first direction in strategy order that changes the
// board. When none does, every direction loses and the first is returned.
func chooseMove(eng *engine.GameEngine) engine.Direction {
	for _, dir := range strategy {
		if eng.CanMove(dir) {
			return dir
		}
	}
	return strategy[0]
}

func summarize(reports []GameReport) *Summary {
	s := &Summary{
		Games:    reports,
		Worst:    reports[0].Score,
		MaxTiles: make(map[uint32]int),
	}

	total := 0
	for _, r := range reports {
		if r.Score > s.Best {
			s.Best = r.Score
		}
		if r.Score < s.Worst {
			s.Worst = r.Score
		}
		s.MaxTiles[r.Score]++
		total += r.Moves
	}
	s.MeanMoves = float64(total) / float64(len(reports))
	return s
}

// SortedTiles returns the distinct max tiles reached, highest first
func (s *Summary) SortedTiles() []uint32 {
	tiles := make([]uint32, 0, len(s.MaxTiles))
	for tile := range s.MaxTiles {
		tiles = append(tiles, tile)
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i] > tiles[j] })
	return tiles
}
