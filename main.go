// Command tilemerge plays a sliding tile merge game in the terminal.
//
// It supports these commands:
//  1. "play" (default): interactive game on a full-screen terminal, or a plain stream with --plain
//  2. "simulate": headless games played with a fixed direction priority
//  3. "configs": list the available presets
//  4. "validate": check preset files before they are played
//  5. "mcp": MCP stdio server so agents can play through tools
//
// Presets are read from --config-dir (or CONFIG_DIR). When the default
// directory is missing, only the built-in presets are available.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/tilemerge/audio"
	"github.com/wricardo/tilemerge/game/config"
	"github.com/wricardo/tilemerge/game/engine"
	"github.com/wricardo/tilemerge/game/play"
	"github.com/wricardo/tilemerge/game/service"
	"github.com/wricardo/tilemerge/game/session"
	"github.com/wricardo/tilemerge/transport/mcp"
	"github.com/wricardo/tilemerge/transport/terminal"
	"github.com/wricardo/tilemerge/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "tilemerge"
)

const defaultConfigDir = "configs"

// Session retention for the MCP server
const (
	sessionCleanupInterval = 1 * time.Hour
	sessionMaxAge          = 24 * time.Hour
)

// main loads .env, then runs the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "slide and merge tiles on a square board",
		Version: Version,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   defaultConfigDir,
				Usage:   "directory containing preset JSON files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		}, playFlags(true)...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play an interactive game (default)",
				Flags:  playFlags(false),
				Action: runPlay,
			},
			{
				Name:  "simulate",
				Usage: "play games without input using a fixed strategy",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Value: "classic", Usage: "preset to simulate"},
					&cli.IntFlag{Name: "games", Value: 10, Usage: "number of games"},
					&cli.Int64Flag{Name: "seed", Usage: "seed of the first game, 0 for clock seeded games"},
					&cli.IntFlag{Name: "workers", Usage: "concurrent games, 0 for one per CPU"},
					&cli.IntFlag{Name: "max-moves", Value: play.DefaultMaxMoves, Usage: "stop a game after this many moves"},
					&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON"},
				},
				Action: runSimulate,
			},
			{
				Name:   "configs",
				Usage:  "list available presets",
				Action: runConfigs,
			},
			{
				Name:      "validate",
				Usage:     "validate preset files or directories",
				ArgsUsage: "[file or directory...]",
				Action:    runValidate,
			},
			{
				Name:   "mcp",
				Usage:  "serve the game to MCP clients over stdio",
				Action: runMCP,
			},
		},
	}
}

// playFlags are shared by the root command and "play". On the root they are
// local so subcommands can define their own preset and seed.
func playFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "preset", Value: "classic", Usage: "preset to play", Local: local},
		&cli.IntFlag{Name: "size", Usage: "override the board size (drops any fixed layout)", Local: local},
		&cli.Int64Flag{Name: "seed", Usage: "seed for tile spawns, 0 to seed from the clock", Local: local},
		&cli.BoolFlag{Name: "plain", Usage: "read raw keys and print boards instead of drawing a full screen", Local: local},
		&cli.BoolFlag{Name: "sound", Usage: "play a chime when tiles merge", Local: local},
		&cli.StringFlag{Name: "log-file", Usage: "write debug logs here while playing", Local: local},
	}
}

// resolveConfigDir falls back to built-in presets only when the default
// directory is missing. An explicit directory must exist.
func resolveConfigDir(dir string, explicit bool) string {
	if explicit {
		return dir
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ""
	}
	return dir
}

func newConfigManager(cmd *cli.Command) (*config.Manager, error) {
	dir := resolveConfigDir(cmd.String("config-dir"), cmd.IsSet("config-dir"))
	configManager, err := config.NewManager(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	return configManager, nil
}

// presetFor loads a preset and applies command line overrides to a copy of it
func presetFor(configs *config.Manager, name string, size int, seed int64) (*engine.GameConfig, error) {
	preset, err := configs.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}

	cfg := *preset
	if size > 0 && size != cfg.Size {
		cfg.Size = size
		cfg.Layout = nil
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := engine.ValidateGameConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// frontend is a key source and display that must be restored on exit
type frontend interface {
	play.InputSource
	play.Display
	Close()
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	configs, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	cfg, err := presetFor(configs, cmd.String("preset"), cmd.Int("size"), cmd.Int64("seed"))
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	// The board owns the terminal, so logs go to a file or nowhere
	logger := log.New(io.Discard, "", 0)
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger = log.New(f, "", log.LstdFlags)
	}

	var ui frontend
	if cmd.Bool("plain") {
		ui, err = terminal.NewStream(os.Stdin, os.Stdout)
	} else {
		ui, err = terminal.NewScreen()
	}
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	opts := []play.Option{play.WithLogger(logger)}
	if cmd.Bool("sound") {
		chime, err := audio.NewChime()
		if err != nil {
			logger.Printf("Sound disabled: %v", err)
		} else {
			defer chime.Close()
			opts = append(opts, play.WithChime(chime))
		}
	}

	loop, err := play.NewLoop(eng, ui, ui, opts...)
	if err != nil {
		ui.Close()
		return err
	}

	logger.Printf("Starting %s v%s with preset %s (%dx%d)", AppName, Version, cfg.Name, cfg.Size, cfg.Size)
	result, err := loop.Run(ctx)
	ui.Close()
	if err != nil {
		return err
	}
	logger.Printf("Game ended (%s) with score %d after %d moves", result.Outcome, result.Score, result.Moves)

	// The full screen is gone once closed, so leave the final board behind
	if result.Outcome == play.OutcomeLost && !cmd.Bool("plain") {
		fmt.Print(result.State.Rendered)
		fmt.Println(play.LossMessage(result.Score))
	}
	return nil
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	configs, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	cfg, err := presetFor(configs, cmd.String("preset"), 0, 0)
	if err != nil {
		return err
	}

	summary, err := play.Simulate(ctx, cfg, play.SimulationOptions{
		Games:    cmd.Int("games"),
		Seed:     cmd.Int64("seed"),
		MaxMoves: cmd.Int("max-moves"),
		Workers:  cmd.Int("workers"),
	})
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	for _, game := range summary.Games {
		status := "lost"
		if !game.Lost {
			status = "stopped"
		}
		fmt.Fprintf(w, "Game %d: score %d in %d moves (%s)\n", game.Game, game.Score, game.Moves, status)
	}
	fmt.Fprintf(w, "\nBest: %d  Worst: %d  Mean moves: %.1f\n", summary.Best, summary.Worst, summary.MeanMoves)
	for _, tile := range summary.SortedTiles() {
		fmt.Fprintf(w, "  %6d: %d games\n", tile, summary.MaxTiles[tile])
	}
	return nil
}

func runConfigs(ctx context.Context, cmd *cli.Command) error {
	configs, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	list, err := configs.ListConfigs()
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	for _, c := range list {
		source := "built-in"
		if c.Filename != "" {
			source = c.Filename
		}
		start := "random"
		if c.HasLayout {
			start = "layout"
		}
		fmt.Fprintf(w, "%-12s %2dx%-2d %-7s %-14s %s\n", c.ConfigID, c.Size, c.Size, start, source, c.Description)
	}
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	targets := cmd.Args().Slice()
	if len(targets) == 0 {
		targets = []string{cmd.String("config-dir")}
	}

	var results []validate.ValidationResult
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("cannot validate %s: %w", target, err)
		}
		if !info.IsDir() {
			results = append(results, validate.ValidateFile(target))
			continue
		}
		dirResults, err := validate.ValidateDir(target)
		if err != nil {
			return err
		}
		results = append(results, dirResults...)
	}

	if len(results) == 0 {
		return fmt.Errorf("no preset files found in %v", targets)
	}
	if !validate.Report(cmd.Root().Writer, results) {
		return cli.Exit("", 1)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	dir := resolveConfigDir(cmd.String("config-dir"), cmd.IsSet("config-dir"))
	gameService, sessions, err := initializeServices(dir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessionCleanupRoutine(ctx, sessions, sessionCleanupInterval, sessionMaxAge)

	// stdout carries the protocol; the default logger writes to stderr
	log.Printf("Starting %s v%s MCP stdio server", AppName, Version)
	return mcp.NewServer(gameService, Version).ServeStdio()
}

// initializeServices wires session/config managers and the game service.
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge, until ctx is cancelled.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}
