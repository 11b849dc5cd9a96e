package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"wrapsnake/ai"
	"wrapsnake/config"
	"wrapsnake/game"
	"wrapsnake/game/manager"
	"wrapsnake/ui"
	"wrapsnake/ui/terminal"
)

const defaultTerminalLog = "data/snake.log"

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the YAML config file")
	speed := flag.Int("speed", 0, "Tick interval in milliseconds (lower = faster)")
	term := flag.Bool("term", false, "Play in the terminal instead of a window")
	autopilot := flag.Bool("autopilot", false, "Let the Q-learning autopilot play")
	seed := flag.Uint64("seed", 0, "Random seed for fruit placement (0 = time based)")
	statsFile := flag.String("stats", "", "Where to keep game statistics")
	train := flag.Int("train", 0, "Train the autopilot headless for this many episodes and exit")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Only flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "speed":
			cfg.TickInterval = time.Duration(*speed) * time.Millisecond
		case "term":
			if *term {
				cfg.Frontend = config.FrontendTerminal
			} else {
				cfg.Frontend = config.FrontendWindow
			}
		case "autopilot":
			cfg.Autopilot.Enabled = *autopilot
		case "seed":
			cfg.Seed = *seed
		case "stats":
			cfg.StatsFile = *statsFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *train > 0 {
		err = runTraining(cfg, *train)
	} else {
		err = run(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.Frontend == config.FrontendTerminal && cfg.Log.File == "" {
		cfg.Log.File = defaultTerminalLog
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, err := game.NewEngine(cfg.EngineOptions())
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	stats := manager.NewStateManager(cfg.StatsFile)
	if err := stats.Load(); err != nil {
		logger.Warnf("Starting with empty stats: %v", err)
	}

	var pilot *ai.Autopilot
	sessionCfg := game.SessionConfig{
		Interval: cfg.TickInterval,
		Stats:    stats,
		Logger:   logger,
	}
	if cfg.Autopilot.Enabled {
		pilot = ai.NewAutopilot(cfg.Seed, logger)
		if err := pilot.Load(cfg.Autopilot.QTableFile); err != nil {
			logger.Warnf("Starting with an empty Q-table: %v", err)
		}
		sessionCfg.Pilot = pilot
		sessionCfg.AutoRestart = cfg.Autopilot.AutoRestart
	}
	session := game.NewSession(engine, sessionCfg)

	switch cfg.Frontend {
	case config.FrontendTerminal:
		err = runTerminal(session, stats, logger)
	default:
		runWindow(cfg, session, stats)
	}
	session.Stop()

	if saveErr := stats.Save(); saveErr != nil {
		logger.Warnf("Error saving stats: %v", saveErr)
	}
	if pilot != nil {
		if saveErr := pilot.Save(cfg.Autopilot.QTableFile); saveErr != nil {
			logger.Warnf("Error saving Q-table: %v", saveErr)
		}
	}
	logger.Infof("Exiting after %d games (%d in history), high score %d, average %.1f over %s",
		stats.GamesPlayed(), len(stats.History()), stats.HighScore(), stats.AverageScore(), stats.AverageDuration())
	return err
}

// runTraining plays episodes without a frontend and keeps the Q-table it learned.
func runTraining(cfg *config.Config, episodes int) error {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, err := game.NewEngine(cfg.EngineOptions())
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	pilot := ai.NewAutopilot(cfg.Seed, logger)
	if err := pilot.Load(cfg.Autopilot.QTableFile); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := ai.Train(ctx, engine, pilot, ai.TrainOptions{
		Episodes:   episodes,
		SaveEvery:  500,
		QTableFile: cfg.Autopilot.QTableFile,
		Logger:     logger,
	})
	if saveErr := pilot.Save(cfg.Autopilot.QTableFile); saveErr != nil {
		return saveErr
	}
	logger.Infof("Trained %d episodes: best %d, average %.1f, %d stalled",
		result.Episodes, result.BestScore, result.AverageScore, result.Stalled)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runWindow(cfg *config.Config, session *game.Session, stats *manager.StateManager) {
	width, height := ui.WindowSize(cfg.Grid())
	rl.InitWindow(width, height, "Snake")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	renderer := ui.NewRenderer()
	session.Start()

	for !rl.WindowShouldClose() {
		in := ui.PollInput()
		switch in.Action {
		case ui.ActionQuit:
			return
		case ui.ActionRestart:
			session.Restart()
		}
		if in.Direction.Valid() {
			session.SetDirection(in.Direction)
		}

		renderer.Draw(session.Snapshot(), stats)
	}
}

func runTerminal(session *game.Session, stats *manager.StateManager, logger *zap.SugaredLogger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = terminal.New(screen, session, stats, logger).Run(ctx)
	if err != nil && ctx.Err() != nil {
		// interrupted from outside, not a failure
		return nil
	}
	return err
}

func newLogger(cfg config.Log) (*zap.SugaredLogger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = level
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}
