// Package flappy implements the Flappy Bird demo: gravity, a jump that
// replaces the vertical velocity, and an endless field of scrolling pipe
// pairs. Touching a pipe or leaving the screen vertically restarts the run.
package flappy

import (
	"fmt"

	"github.com/vovakirdan/demoloop/internal/config"
	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/games/demo"
	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/sim"
)

// Visual characters for rendering
const (
	PlayerChar    = '●'
	PlayerBeak    = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▄' // lower edge of a top pipe
	PipeCapBottom = '▀' // upper edge of a bottom pipe
)

// Game implements the Flappy Bird demo.
type Game struct {
	demo.Runner
	cfg config.FlappyConfig
}

// New creates a new Flappy Bird game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Reset loads the configuration and builds a fresh world.
func (g *Game) Reset(rt core.RuntimeConfig) error {
	cfg, err := config.LoadFlappy(rt.ConfigPath, config.WithLogger(rt.Logger))
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(rt.Difficulty)
	if err != nil {
		return err
	}
	config.ApplyPreset(&cfg.Difficulty, preset)

	simCfg, err := cfg.Sim()
	if err != nil {
		return err
	}
	if err := g.Start(simCfg, cfg.Bounds(), rt); err != nil {
		return err
	}
	g.cfg = cfg
	g.SetDifficulty(config.NewDifficultyManager(cfg.Difficulty))
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

	for _, p := range snap.Pipes {
		drawPipe(dst, vp, p)
	}

	if snap.Player != nil {
		demo.DrawEntity(dst, vp, *snap.Player, PlayerChar, core.ColorPlayer)
		_, y0, x1, y1 := vp.CellRect(snap.Player.Rect())
		dst.SetColored(x1-1, (y0+y1-1)/2, PlayerBeak, core.ColorPlayer)
	}

	extra := ""
	if g.cfg.Difficulty.Enabled {
		extra = fmt.Sprintf("Spd: %.0f", w.ScrollSpeed())
	}
	g.DrawHUD(dst, extra)
}

// drawPipe fills a pipe and puts a cap on the edge facing the gap.
func drawPipe(dst *core.Screen, vp core.Viewport, p sim.PipeView) {
	x0, y0, x1, y1 := vp.CellRect(p.Rect())
	dst.FillRect(x0, y0, x1, y1, PipeChar, core.ColorPipe)
	if p.Kind == sim.PipeTop {
		dst.DrawHLine(x0, y1-1, x1-x0, PipeCapTop, core.ColorPipeCap)
	} else {
		dst.DrawHLine(x0, y0, x1-x0, PipeCapBottom, core.ColorPipeCap)
	}
}

// Register the game with the registry
func init() {
	registry.Register("flappy", func() registry.Game {
		return New()
	})
}
