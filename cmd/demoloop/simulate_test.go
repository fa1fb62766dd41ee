package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

func TestParseSchedule(t *testing.T) {
	sched, err := parseSchedule([]string{"0:space:down", "2:space:up", "0:d:down"})
	if err != nil {
		t.Fatalf("parseSchedule() error = %v", err)
	}
	if got := sched[0]; len(got) != 2 || got[0] != core.Press(core.KeySpace) || got[1] != core.Press(core.KeyD) {
		t.Errorf("frame 0 = %+v", got)
	}
	if got := sched[2]; len(got) != 1 || got[0] != core.Release(core.KeySpace) {
		t.Errorf("frame 2 = %+v", got)
	}

	bad := []string{"space:down", "x:space:down", "-1:space:down", "0:q:down", "0:space:sideways"}
	for _, entry := range bad {
		if _, err := parseSchedule([]string{entry}); err == nil {
			t.Errorf("parseSchedule(%q) should fail", entry)
		}
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	sched, err := parseSchedule([]string{"0:space:down", "1:space:up", "40:space:down", "41:space:up"})
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 11

	for _, id := range []string{"flappy", "topdown", "terrain"} {
		t.Run(id, func(t *testing.T) {
			run := func() simResult {
				game, err := registry.Create(id)
				if err != nil {
					t.Fatal(err)
				}
				res, err := simulate(game, cfg, 300, sched)
				if err != nil {
					t.Fatalf("simulate() error = %v", err)
				}
				return res
			}

			a, b := run(), run()
			if a.Frames != 300 {
				t.Errorf("Frames = %d, expected 300", a.Frames)
			}
			if a.Digest != b.Digest || a.State != b.State || len(a.Runs) != len(b.Runs) {
				t.Errorf("runs differ: %+v vs %+v", a, b)
			}
		})
	}
}

func TestSimulateFlappyEndsRuns(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	game, err := registry.Create("flappy")
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 3

	// Never flapping falls out of the screen over and over.
	res, err := simulate(game, cfg, 600, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Runs) == 0 || res.State.Restarts != len(res.Runs) {
		t.Errorf("Runs = %d, Restarts = %d", len(res.Runs), res.State.Restarts)
	}
	for _, r := range res.Runs {
		if r.Seed != 3 {
			t.Errorf("run seed = %d, expected 3", r.Seed)
		}
	}
}

func TestVerifyStoredRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	cfg := core.DefaultConfig()
	cfg.Seed = 21
	played, err := registry.Create("flappy")
	if err != nil {
		t.Fatal(err)
	}
	if err := played.Reset(cfg); err != nil {
		t.Fatal(err)
	}
	var ended *core.RunSummary
	for i := 0; i < 600 && ended == nil; i++ {
		in := core.FrameInput{Delta: 1.0/60 + float32(i%3)*0.001}
		if i%30 == 0 {
			in.Keys = []core.KeyEvent{core.Press(core.KeySpace)}
		} else if i%30 == 1 {
			in.Keys = []core.KeyEvent{core.Release(core.KeySpace)}
		}
		ended = played.Step(in).Ended
	}
	if ended == nil {
		t.Fatal("run never ended")
	}

	good, err := store.SaveRun("flappy", *ended)
	if err != nil {
		t.Fatal(err)
	}
	tampered := *ended
	tampered.Digest ^= 1
	bad, err := store.SaveRun("flappy", tampered)
	if err != nil {
		t.Fatal(err)
	}
	bare, err := store.SaveRun("flappy", core.RunSummary{Score: 1, Seed: 21})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		id       string
		diverged bool
		fails    bool
	}{
		{"recorded run", good, false, false},
		{"wrong digest", bad, true, true},
		{"no trace", bare, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := store.GetRun(tt.id)
			if err != nil {
				t.Fatalf("GetRun() error = %v", err)
			}
			game, err := registry.Create(run.GameID)
			if err != nil {
				t.Fatal(err)
			}
			got, err := verifyRun(game, core.DefaultConfig(), run)
			if (err != nil) != tt.fails {
				t.Fatalf("verifyRun() error = %v, expected failure %v", err, tt.fails)
			}
			if errors.Is(err, errReplayDiverged) != tt.diverged {
				t.Errorf("verifyRun() error = %v, expected divergence %v", err, tt.diverged)
			}
			if !tt.fails && got.Digest != ended.Digest {
				t.Errorf("replayed digest = %016x, expected %016x", got.Digest, ended.Digest)
			}
		})
	}
}
