package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/platform/tui"
	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

var (
	flagSimFrames int
	flagSimKeys   []string
	flagSimVerify string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [demo]",
	Short: "Run a demo headless and print its state digest",
	Long: `Run a demo without a terminal for a fixed number of frames at a fixed
frame time of 1/fps seconds, then print the final state and the world digest.
The same seed, frame count and key schedule always print the same digest.

Keys are scheduled as frame:key:edge, where edge is "down" or "up" and key
is one of w a s d up down left right space.

With --verify the demo, seed and input come from a stored run instead: its
recorded frames are replayed and the run they end must match the stored
score and digest. Run IDs may be shortened to any unique prefix.

Examples:
  demoloop simulate flappy --seed 1 --frames 600
  demoloop simulate flappy --seed 1 --key 0:space:down --key 2:space:up
  demoloop simulate topdown --seed 9 --key 0:d:down --key 0:space:down
  demoloop simulate --verify 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimFrames, "frames", 600, "Number of frames to simulate")
	simulateCmd.Flags().StringArrayVar(&flagSimKeys, "key", nil, "Key event as frame:key:down|up (repeatable)")
	simulateCmd.Flags().StringVar(&flagSimVerify, "verify", "", "Replay a stored run by ID and check its digest")
}

// keySchedule holds the key events to feed at each frame.
type keySchedule map[int][]core.KeyEvent

// parseSchedule parses frame:key:edge entries.
func parseSchedule(entries []string) (keySchedule, error) {
	sched := make(keySchedule)
	for _, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("key %q: expected frame:key:edge", entry)
		}
		frame, err := strconv.Atoi(parts[0])
		if err != nil || frame < 0 {
			return nil, fmt.Errorf("key %q: bad frame %q", entry, parts[0])
		}
		k, ok := tui.KeyByName(parts[1])
		if !ok {
			return nil, fmt.Errorf("key %q: unknown key %q", entry, parts[1])
		}
		var ev core.KeyEvent
		switch parts[2] {
		case "down":
			ev = core.Press(k)
		case "up":
			ev = core.Release(k)
		default:
			return nil, fmt.Errorf("key %q: edge must be down or up", entry)
		}
		sched[frame] = append(sched[frame], ev)
	}
	return sched, nil
}

// simResult is the outcome of a headless run.
type simResult struct {
	State  core.GameState
	Frames uint64
	Digest uint64
	Runs   []core.RunSummary
}

// simulate resets game and steps it frames times with a fixed dt.
func simulate(game registry.Game, cfg core.RuntimeConfig, frames int, sched keySchedule) (simResult, error) {
	if err := game.Reset(cfg); err != nil {
		return simResult{}, err
	}
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	dt := 1 / float32(tickRate)

	var res simResult
	for i := 0; i < frames; i++ {
		out := game.Step(core.FrameInput{Delta: dt, Keys: sched[i]})
		if out.Ended != nil {
			res.Runs = append(res.Runs, *out.Ended)
		}
	}

	w := game.World()
	res.State = game.State()
	res.Frames = w.Frames()
	res.Digest = w.Digest()
	return res, nil
}

// errReplayDiverged means a stored run's trace did not reproduce it.
var errReplayDiverged = errors.New("replay diverged from the stored run")

// verifyRun replays run's trace on a fresh game seeded like the original
// and checks the last run it ends against the stored one.
func verifyRun(game registry.Game, cfg core.RuntimeConfig, run *storage.RunEntry) (core.RunSummary, error) {
	if len(run.Trace) == 0 {
		return core.RunSummary{}, fmt.Errorf("run %s has no input trace", run.ShortID())
	}
	cfg.Seed = run.Seed
	if err := game.Reset(cfg); err != nil {
		return core.RunSummary{}, err
	}

	var last *core.RunSummary
	for _, in := range run.Trace {
		if res := game.Step(in); res.Ended != nil {
			last = res.Ended
		}
	}
	if last == nil {
		return core.RunSummary{}, fmt.Errorf("%w: no run ended in %d frames", errReplayDiverged, len(run.Trace))
	}
	if last.Digest != run.Digest || last.Score != run.Score {
		return *last, fmt.Errorf("%w: got score %d digest %016x, stored score %d digest %016x",
			errReplayDiverged, last.Score, last.Digest, run.Score, run.Digest)
	}
	return *last, nil
}

func runVerify(logger *log.Logger) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Error("cannot open runs database", "path", flagDBPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.GetRun(flagSimVerify)
	if err != nil {
		logger.Error("cannot load run", "run", flagSimVerify, "err", err)
		os.Exit(1)
	}
	game, err := registry.Create(run.GameID)
	if err != nil {
		logger.Error("unknown demo", "demo", run.GameID)
		os.Exit(1)
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty
	cfg.Logger = logger

	got, err := verifyRun(game, cfg, run)
	fmt.Printf("run:      %s\n", run.ID)
	fmt.Printf("demo:     %s\n", run.GameID)
	fmt.Printf("seed:     %d\n", run.Seed)
	fmt.Printf("frames:   %d\n", len(run.Trace))
	fmt.Printf("score:    %d\n", run.Score)
	fmt.Printf("digest:   %016x\n", run.Digest)
	if err != nil {
		logger.Error("verification failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("replayed: %016x ok\n", got.Digest)
}

func runSimulate(cmd *cobra.Command, args []string) {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if flagSimVerify != "" {
		runVerify(logger)
		return
	}
	if len(args) != 1 {
		logger.Error("simulate needs a demo, or --verify with a run ID")
		os.Exit(1)
	}
	gameID := args[0]

	game, err := registry.Create(gameID)
	if err != nil {
		logger.Error("unknown demo", "demo", gameID)
		fmt.Fprintln(os.Stderr, "Run 'demoloop list' to see available demos.")
		os.Exit(1)
	}

	sched, err := parseSchedule(flagSimKeys)
	if err != nil {
		logger.Error("bad key schedule", "err", err)
		os.Exit(1)
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty
	cfg.Logger = logger

	res, err := simulate(game, cfg, flagSimFrames, sched)
	if err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	for i, run := range res.Runs {
		logger.Info("run ended", "run", i+1, "score", run.Score, "duration", run.Duration,
			"digest", fmt.Sprintf("%016x", run.Digest))
	}

	fmt.Printf("demo:     %s\n", gameID)
	fmt.Printf("seed:     %d\n", cfg.Seed)
	fmt.Printf("frames:   %d\n", res.Frames)
	fmt.Printf("score:    %d\n", res.State.Score)
	fmt.Printf("best:     %d\n", res.State.Best)
	fmt.Printf("restarts: %d\n", res.State.Restarts)
	fmt.Printf("digest:   %016x\n", res.Digest)
}
