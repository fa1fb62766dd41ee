package sim

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/demoloop/internal/core"
)

// ResamplePolicy decides how often a fresh vertical offset is drawn for
// recycled pipes.
type ResamplePolicy string

const (
	// ResamplePerPair draws one offset for each pair that recycles.
	ResamplePerPair ResamplePolicy = "per-pair"
	// ResamplePerFrame draws one offset per frame and gives it to every
	// pair that recycles during that frame.
	ResamplePerFrame ResamplePolicy = "per-frame"
)

// PipeConfig describes the scrolling obstacle field.
type PipeConfig struct {
	Width         float32
	Height        float32
	VerticalGap   float32 // distance from the pair's offset to each pipe's inner edge
	HorizontalGap float32 // spacing between consecutive pairs
	Count         int     // number of pairs
	ScrollSpeed   float32 // world units per second
	Resample      ResamplePolicy
}

// Handles are the asset handles passed through to spawned sprites.
type Handles struct {
	Player     AssetHandle
	Pipe       AssetHandle
	Projectile AssetHandle
}

// Config selects which stages run and parameterizes them. Every demo is a
// Config over the same core.
type Config struct {
	// Gravity pulls every body down by GravityAccel each second.
	Gravity      bool
	GravityAccel float32
	// JumpSpeed overwrites the player's vertical velocity on a Jump press.
	// Zero disables jumping.
	JumpSpeed float32

	// Movement drives the player's velocity from the input axis.
	Movement      bool
	MoveSpeed     float32
	NormalizeAxis bool // keep diagonal speed equal to MoveSpeed

	// Aim tracks the cursor; Shoot fires projectiles along the aim.
	Aim             bool
	Shoot           bool
	ProjectileSpeed float32
	ProjectileSize  float32

	Pipes bool
	Pipe  PipeConfig

	// CheckBounds restarts when the player leaves the vertical world extent.
	CheckBounds bool
	// Confine stops the player at the world edges instead.
	Confine bool

	PlayerSize float32
	Handles    Handles
	KeyMap     core.KeyMap
}

// FlappyBird returns the gravity + scrolling pipes configuration.
func FlappyBird() Config {
	return Config{
		Gravity:      true,
		GravityAccel: 1000,
		JumpSpeed:    500,
		Pipes:        true,
		Pipe: PipeConfig{
			Width:         100,
			Height:        500,
			VerticalGap:   100,
			HorizontalGap: 200,
			Count:         8,
			ScrollSpeed:   100,
			Resample:      ResamplePerPair,
		},
		CheckBounds: true,
		PlayerSize:  50,
		Handles:     Handles{Player: "bird", Pipe: "pipe"},
		KeyMap:      core.JumpKeyMap(),
	}
}

// TopDown returns the axis movement + aim + shoot configuration.
func TopDown() Config {
	return Config{
		Movement:        true,
		MoveSpeed:       100,
		NormalizeAxis:   true,
		Aim:             true,
		Shoot:           true,
		ProjectileSpeed: 400,
		ProjectileSize:  10,
		Confine:         true,
		PlayerSize:      50,
		Handles:         Handles{Player: "player", Projectile: "bullet"},
		KeyMap:          core.ShootKeyMap(),
	}
}

// Explorer returns plain axis movement with nothing to collide with.
func Explorer() Config {
	return Config{
		Movement:      true,
		MoveSpeed:     160,
		NormalizeAxis: true,
		PlayerSize:    16,
		Handles:       Handles{Player: "explorer"},
		KeyMap:        core.MovementKeyMap(),
	}
}

var errInvalidConfig = errors.New("sim: invalid config")

// Validate reports the first parameter that would make the simulation
// meaningless.
func (c Config) Validate() error {
	if c.PlayerSize <= 0 {
		return fmt.Errorf("%w: player size must be positive, got %v", errInvalidConfig, c.PlayerSize)
	}
	if c.Gravity && c.GravityAccel < 0 {
		return fmt.Errorf("%w: gravity must not be negative, got %v", errInvalidConfig, c.GravityAccel)
	}
	if c.Movement && c.MoveSpeed <= 0 {
		return fmt.Errorf("%w: move speed must be positive, got %v", errInvalidConfig, c.MoveSpeed)
	}
	if c.Shoot && (!c.Aim || c.ProjectileSpeed <= 0) {
		return fmt.Errorf("%w: shooting needs aim and a positive projectile speed", errInvalidConfig)
	}
	if c.Pipes {
		p := c.Pipe
		if p.Count <= 0 {
			return fmt.Errorf("%w: pipe count must be positive, got %d", errInvalidConfig, p.Count)
		}
		if p.Width <= 0 || p.Height <= 0 || p.HorizontalGap <= 0 {
			return fmt.Errorf("%w: pipe size and spacing must be positive", errInvalidConfig)
		}
		if p.Resample != ResamplePerPair && p.Resample != ResamplePerFrame {
			return fmt.Errorf("%w: unknown resample policy %q", errInvalidConfig, p.Resample)
		}
	}
	if c.KeyMap == nil {
		return fmt.Errorf("%w: key map is required", errInvalidConfig)
	}
	return nil
}
