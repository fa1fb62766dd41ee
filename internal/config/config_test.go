package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/demoloop/internal/sim"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// isolate points $HOME and the working directory at empty temp dirs so the
// search path only sees what the test writes.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	isolate(t)

	flappy, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy() error = %v", err)
	}
	if flappy != DefaultFlappyConfig() {
		t.Errorf("embedded flappy.yaml = %+v, expected %+v", flappy, DefaultFlappyConfig())
	}

	topdown, err := LoadTopDown("")
	if err != nil {
		t.Fatalf("LoadTopDown() error = %v", err)
	}
	if topdown != DefaultTopDownConfig() {
		t.Errorf("embedded topdown.yaml = %+v, expected %+v", topdown, DefaultTopDownConfig())
	}

	ter, err := LoadTerrain("")
	if err != nil {
		t.Fatalf("LoadTerrain() error = %v", err)
	}
	if ter != DefaultTerrainConfig() {
		t.Errorf("embedded terrain.yaml = %+v, expected %+v", ter, DefaultTerrainConfig())
	}
}

func TestCustomPathYAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mine.yaml", "physics:\n  gravity: 800\npipes:\n  count: 4\n")

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy() error = %v", err)
	}
	if cfg.Physics.Gravity != 800 || cfg.Pipes.Count != 4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Physics.JumpImpulse != 500 || cfg.Pipes.Width != 100 {
		t.Errorf("missing keys should keep defaults: %+v", cfg)
	}
}

func TestCustomPathTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "td.toml", "[player]\nspeed = 250.0\n\n[projectile]\nspeed = 900.0\nsize = 4.0\n")

	cfg, err := LoadTopDown(path)
	if err != nil {
		t.Fatalf("LoadTopDown() error = %v", err)
	}
	if cfg.Player.Speed != 250 || cfg.Projectile.Speed != 900 || cfg.Projectile.Size != 4 {
		t.Errorf("TOML values not applied: %+v", cfg)
	}
	if cfg.Player.Size != 50 {
		t.Errorf("Player.Size = %v, expected default 50", cfg.Player.Size)
	}
}

func TestCustomPathErrors(t *testing.T) {
	if _, err := LoadFlappy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}
	bad := writeFile(t, t.TempDir(), "bad.toml", "this is = = not toml")
	if _, err := LoadFlappy(bad); err == nil {
		t.Error("broken custom file should fail")
	}
}

func TestSearchOrder(t *testing.T) {
	home, work := isolate(t)

	local := filepath.Join(work, "configs")
	if err := os.MkdirAll(local, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, local, "terrain.yaml", "chunks:\n  radius: 4\n")

	cfg, err := LoadTerrain("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunks.Radius != 4 {
		t.Errorf("local config ignored, radius = %d", cfg.Chunks.Radius)
	}

	user := filepath.Join(home, ".demoloop", "configs")
	if err := os.MkdirAll(user, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, user, "terrain.toml", "[chunks]\nradius = 1\n")

	cfg, err = LoadTerrain("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunks.Radius != 1 {
		t.Errorf("user config should win over local, radius = %d", cfg.Chunks.Radius)
	}

	// A broken user file falls through to the next candidate.
	writeFile(t, user, "terrain.toml", "[[[")
	cfg, err = LoadTerrain("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunks.Radius != 4 {
		t.Errorf("broken user file should be skipped, radius = %d", cfg.Chunks.Radius)
	}
}

func TestBrokenSearchFileIsLogged(t *testing.T) {
	home, _ := isolate(t)
	user := filepath.Join(home, ".demoloop", "configs")
	if err := os.MkdirAll(user, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, user, "flappy.yaml", "pipes: [unterminated\n")

	var buf bytes.Buffer
	cfg, err := LoadFlappy("", WithLogger(log.New(&buf)))
	if err != nil {
		t.Fatalf("LoadFlappy() error = %v", err)
	}
	if cfg.Pipes.Count != DefaultFlappyConfig().Pipes.Count {
		t.Errorf("broken file should fall back to defaults, count = %d", cfg.Pipes.Count)
	}

	out := buf.String()
	for _, want := range []string{"skipping config file", path, "yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	// Without a logger the file is still skipped quietly.
	if _, err := LoadFlappy(""); err != nil {
		t.Errorf("LoadFlappy() without logger error = %v", err)
	}
}

func TestFlappySimConversion(t *testing.T) {
	s, err := DefaultFlappyConfig().Sim()
	if err != nil {
		t.Fatalf("Sim() error = %v", err)
	}
	expected := sim.FlappyBird()
	if s.GravityAccel != expected.GravityAccel || s.JumpSpeed != expected.JumpSpeed || s.Pipe != expected.Pipe {
		t.Errorf("default conversion = %+v, expected the built-in preset", s)
	}

	bad := DefaultFlappyConfig()
	bad.Pipes.Resample = "sometimes"
	if _, err := bad.Sim(); err == nil {
		t.Error("unknown resample policy should be rejected")
	}
}

func TestTerrainConversion(t *testing.T) {
	g, err := DefaultTerrainConfig().Generator()
	if err != nil {
		t.Fatalf("Generator() error = %v", err)
	}
	if g.ChunkSize != 10 || g.BlockSize != 16 || g.NoiseZoom != 0.1 || g.Threshold != 0.5 {
		t.Errorf("terrain conversion = %+v", g)
	}
	if _, err := DefaultTopDownConfig().Sim(); err != nil {
		t.Errorf("topdown Sim() error = %v", err)
	}
	if _, err := DefaultTerrainConfig().Sim(); err != nil {
		t.Errorf("terrain Sim() error = %v", err)
	}
}

func TestPresets(t *testing.T) {
	if _, err := ParsePreset("insane"); err == nil {
		t.Error("unknown preset should be rejected")
	}

	d := DefaultFlappyConfig().Difficulty
	ApplyPreset(&d, DifficultyHard)
	if !d.Enabled || d.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v", d)
	}
	ApplyPreset(&d, DifficultyFixed)
	if d.Enabled {
		t.Error("fixed preset should disable progression")
	}
	before := d
	ApplyPreset(&d, "")
	if d != before {
		t.Error("empty preset must leave the config alone")
	}
}

func TestDifficultySpeed(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     ScalingConfig{SpeedMultiplier: 1.0},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 100},
		{5, 150},
		{10, 200},
		{50, 200},
	}
	for _, tt := range tests {
		if got := dm.Speed(100, tt.score, 0); got != tt.expected {
			t.Errorf("Speed(score=%d) = %v, expected %v", tt.score, got, tt.expected)
		}
	}

	cfg.Enabled = false
	if got := NewDifficultyManager(cfg).Speed(100, 10, 0); got != 100 {
		t.Errorf("disabled manager changed speed to %v", got)
	}

	timed := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 60},
	})
	if got := timed.Level(0, 30); got != 0.75 {
		t.Errorf("Level(30s) = %v, expected 0.75", got)
	}
}
