// Package config provides YAML/TOML demo configuration loading and
// difficulty management, and converts the file formats into the
// simulation's own configuration types.
package config

import (
	"fmt"

	"github.com/vovakirdan/demoloop/internal/sim"
	"github.com/vovakirdan/demoloop/internal/terrain"
)

// WorldConfig is the visible world extent in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// FlappyConfig contains all configuration for the Flappy Bird demo.
type FlappyConfig struct {
	World      WorldConfig      `yaml:"world" toml:"world"`
	Physics    FlappyPhysics    `yaml:"physics" toml:"physics"`
	Pipes      FlappyPipes      `yaml:"pipes" toml:"pipes"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// FlappyPhysics defines physics parameters for Flappy Bird.
type FlappyPhysics struct {
	Gravity     float64 `yaml:"gravity" toml:"gravity"`           // units/s²
	JumpImpulse float64 `yaml:"jump_impulse" toml:"jump_impulse"` // units/s, replaces vertical velocity
	CheckBounds bool    `yaml:"check_bounds" toml:"check_bounds"`
}

// FlappyPipes defines the scrolling obstacle field.
type FlappyPipes struct {
	Width         float64 `yaml:"width" toml:"width"`
	Height        float64 `yaml:"height" toml:"height"`
	VerticalGap   float64 `yaml:"vertical_gap" toml:"vertical_gap"`
	HorizontalGap float64 `yaml:"horizontal_gap" toml:"horizontal_gap"`
	Count         int     `yaml:"count" toml:"count"`
	ScrollSpeed   float64 `yaml:"scroll_speed" toml:"scroll_speed"`
	Resample      string  `yaml:"resample" toml:"resample"` // "per-pair" or "per-frame"
}

// PlayerConfig defines the controllable entity.
type PlayerConfig struct {
	Size  float64 `yaml:"size" toml:"size"`
	Speed float64 `yaml:"speed,omitempty" toml:"speed,omitempty"`
}

// TopDownConfig contains all configuration for the top-down shooter.
type TopDownConfig struct {
	World      WorldConfig     `yaml:"world" toml:"world"`
	Player     PlayerConfig    `yaml:"player" toml:"player"`
	Movement   TopDownMovement `yaml:"movement" toml:"movement"`
	Projectile TopDownShot     `yaml:"projectile" toml:"projectile"`
}

// TopDownMovement defines how the input axis drives the player.
type TopDownMovement struct {
	Normalize bool `yaml:"normalize" toml:"normalize"`
}

// TopDownShot defines projectiles.
type TopDownShot struct {
	Speed float64 `yaml:"speed" toml:"speed"`
	Size  float64 `yaml:"size" toml:"size"`
}

// TerrainConfig contains all configuration for the terrain explorer.
type TerrainConfig struct {
	World  WorldConfig  `yaml:"world" toml:"world"`
	Player PlayerConfig `yaml:"player" toml:"player"`
	Chunks TerrainChunk `yaml:"chunks" toml:"chunks"`
	Noise  TerrainNoise `yaml:"noise" toml:"noise"`
}

// TerrainChunk defines the chunk grid and cache.
type TerrainChunk struct {
	Size      int     `yaml:"size" toml:"size"`
	BlockSize float64 `yaml:"block_size" toml:"block_size"`
	Radius    int     `yaml:"radius" toml:"radius"`
}

// TerrainNoise defines the Perlin sampling.
type TerrainNoise struct {
	Zoom      float64 `yaml:"zoom" toml:"zoom"`
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	Alpha     float64 `yaml:"alpha" toml:"alpha"`
	Beta      float64 `yaml:"beta" toml:"beta"`
	Octaves   int     `yaml:"octaves" toml:"octaves"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string  `yaml:"type" toml:"type"`     // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at" toml:"max_at"` // score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier" toml:"speed_multiplier"` // added to the scroll speed factor at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. The empty string means
// "keep the file's settings".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies a difficulty section based on a preset.
func ApplyPreset(cfg *DifficultyConfig, preset DifficultyPreset) {
	switch preset {
	case "":
	case DifficultyFixed:
		cfg.Enabled = false
	default:
		cfg.Enabled = true
		cfg.InitialLevel = InitialLevelForPreset(preset)
	}
}

func (w WorldConfig) bounds() sim.Bounds {
	return sim.Bounds{Width: float32(w.Width), Height: float32(w.Height)}
}

// Bounds returns the world extent.
func (c FlappyConfig) Bounds() sim.Bounds { return c.World.bounds() }

// Bounds returns the world extent.
func (c TopDownConfig) Bounds() sim.Bounds { return c.World.bounds() }

// Bounds returns the world extent.
func (c TerrainConfig) Bounds() sim.Bounds { return c.World.bounds() }

// Sim converts the file format into a validated simulation config.
func (c FlappyConfig) Sim() (sim.Config, error) {
	s := sim.FlappyBird()
	s.GravityAccel = float32(c.Physics.Gravity)
	s.JumpSpeed = float32(c.Physics.JumpImpulse)
	s.CheckBounds = c.Physics.CheckBounds
	s.PlayerSize = float32(c.Player.Size)
	s.Pipe = sim.PipeConfig{
		Width:         float32(c.Pipes.Width),
		Height:        float32(c.Pipes.Height),
		VerticalGap:   float32(c.Pipes.VerticalGap),
		HorizontalGap: float32(c.Pipes.HorizontalGap),
		Count:         c.Pipes.Count,
		ScrollSpeed:   float32(c.Pipes.ScrollSpeed),
		Resample:      sim.ResamplePolicy(c.Pipes.Resample),
	}
	if s.Pipe.Resample == "" {
		s.Pipe.Resample = sim.ResamplePerPair
	}
	if err := s.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("config: flappy: %w", err)
	}
	return s, nil
}

// Sim converts the file format into a validated simulation config.
func (c TopDownConfig) Sim() (sim.Config, error) {
	s := sim.TopDown()
	s.MoveSpeed = float32(c.Player.Speed)
	s.PlayerSize = float32(c.Player.Size)
	s.NormalizeAxis = c.Movement.Normalize
	s.ProjectileSpeed = float32(c.Projectile.Speed)
	s.ProjectileSize = float32(c.Projectile.Size)
	if err := s.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("config: topdown: %w", err)
	}
	return s, nil
}

// Sim converts the file format into a validated simulation config.
func (c TerrainConfig) Sim() (sim.Config, error) {
	s := sim.Explorer()
	s.MoveSpeed = float32(c.Player.Speed)
	s.PlayerSize = float32(c.Player.Size)
	if err := s.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("config: terrain: %w", err)
	}
	return s, nil
}

// Generator converts the file format into a validated terrain config.
func (c TerrainConfig) Generator() (terrain.Config, error) {
	t := terrain.Config{
		ChunkSize: c.Chunks.Size,
		BlockSize: float32(c.Chunks.BlockSize),
		NoiseZoom: c.Noise.Zoom,
		Threshold: c.Noise.Threshold,
		Radius:    c.Chunks.Radius,
		Alpha:     c.Noise.Alpha,
		Beta:      c.Noise.Beta,
		Octaves:   int32(c.Noise.Octaves),
	}
	if err := t.Validate(); err != nil {
		return terrain.Config{}, fmt.Errorf("config: terrain: %w", err)
	}
	return t, nil
}
