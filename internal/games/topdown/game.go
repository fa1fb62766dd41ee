// Package topdown implements the top-down shooter demo: free axis movement
// at constant speed, aiming at the mouse cursor, and firing projectiles.
package topdown

import (
	"fmt"

	"github.com/vovakirdan/demoloop/internal/config"
	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/games/demo"
	"github.com/vovakirdan/demoloop/internal/registry"
)

// Visual characters for rendering
const (
	PlayerChar     = '@'
	ProjectileChar = '*'
	AimChar        = '·'
)

// aimMarks are the distances, in world units, of the aim markers.
var aimMarks = []float32{60, 90, 120}

// Game implements the top-down shooter demo.
type Game struct {
	demo.Runner
	cfg config.TopDownConfig
}

// New creates a new top-down shooter instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "topdown"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Top-Down Shooter"
}

// Reset loads the configuration and builds a fresh world.
func (g *Game) Reset(rt core.RuntimeConfig) error {
	cfg, err := config.LoadTopDown(rt.ConfigPath, config.WithLogger(rt.Logger))
	if err != nil {
		return err
	}
	simCfg, err := cfg.Sim()
	if err != nil {
		return err
	}
	if err := g.Start(simCfg, cfg.Bounds(), rt); err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w := g.World()
	if w == nil {
		return
	}
	vp := g.Viewport(dst, core.Vec2{})
	snap := w.Snapshot()

	if snap.Player != nil {
		drawAim(dst, vp, snap.Player.Position, snap.Aim)
		demo.DrawEntity(dst, vp, *snap.Player, PlayerChar, core.ColorPlayer)
	}
	for _, p := range snap.Projectiles {
		x, y := vp.ToCell(p.Position)
		dst.SetColored(x, y, ProjectileChar, core.ColorProjectile)
	}

	g.DrawHUD(dst, fmt.Sprintf("Shots: %d", len(snap.Projectiles)))
}

func drawAim(dst *core.Screen, vp core.Viewport, from, aim core.Vec2) {
	for _, d := range aimMarks {
		x, y := vp.ToCell(from.Add(aim.Scale(d)))
		dst.SetColored(x, y, AimChar, core.ColorAim)
	}
}

// Compile-time check that the shooter can take the mouse cursor.
var _ registry.ScreenMapper = (*Game)(nil)

// Register the game with the registry
func init() {
	registry.Register("topdown", func() registry.Game {
		return New()
	})
}

