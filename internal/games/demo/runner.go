// Package demo holds what every demo shares: the simulation world, the
// pause toggle, difficulty scaling, and drawing entities through a
// viewport. The demos differ only in configuration and rendering.
package demo

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/demoloop/internal/config"
	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/sim"
)

// Runner drives one simulation world on behalf of a demo. Demos embed it
// and add their own Render.
type Runner struct {
	world      *sim.World
	logger     *log.Logger
	difficulty *config.DifficultyManager
	baseSpeed  float64
	paused     bool
	viewport   core.Viewport
	last       *core.RunSummary
	trace      []core.FrameInput // every frame that changed the world
}

// Start replaces the world with a fresh one built from cfg.
func (r *Runner) Start(cfg sim.Config, bounds sim.Bounds, rt core.RuntimeConfig) error {
	r.logger = rt.Logger
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}

	w, err := sim.New(cfg, bounds, sim.WithSeed(rt.Seed), sim.WithLogger(r.logger))
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	r.world = w
	r.paused = false
	r.last = nil
	r.trace = nil
	r.difficulty = nil
	r.baseSpeed = float64(cfg.Pipe.ScrollSpeed)
	r.viewport = core.NewViewport(bounds.Width, bounds.Height, rt.ScreenW, rt.ScreenH)
	return nil
}

// SetDifficulty scales the scroll speed with progress from now on.
func (r *Runner) SetDifficulty(d *config.DifficultyManager) {
	r.difficulty = d
}

// Logger returns the demo's logger.
func (r *Runner) Logger() *log.Logger {
	return r.logger
}

// Step applies one frame of platform input.
func (r *Runner) Step(in core.FrameInput) core.StepResult {
	if r.world == nil {
		return core.StepResult{}
	}
	if in.Pause || !r.paused {
		r.record(in)
	}
	if in.Pause {
		r.paused = !r.paused
		// Keys released while paused are never seen, so start clean.
		r.world.Input().Reset()
	}
	if r.paused {
		return core.StepResult{State: r.State()}
	}

	r.world.SetCursor(in.Cursor)
	ended := r.world.Tick(in.Keys, in.Delta)
	if ended != nil {
		ended.Trace = r.trace[:len(r.trace):len(r.trace)]
		r.last = ended
	}
	if r.difficulty != nil {
		speed := r.difficulty.Speed(r.baseSpeed, r.world.Score(), float64(r.world.RunTime()))
		r.world.SetScrollSpeed(float32(speed))
	}
	return core.StepResult{State: r.State(), Ended: ended}
}

func (r *Runner) record(in core.FrameInput) {
	f := core.FrameInput{Delta: in.Delta, Pause: in.Pause}
	if len(in.Keys) > 0 {
		f.Keys = append([]core.KeyEvent(nil), in.Keys...)
	}
	if in.Cursor != nil {
		c := *in.Cursor
		f.Cursor = &c
	}
	r.trace = append(r.trace, f)
}

// State returns the current game state.
func (r *Runner) State() core.GameState {
	if r.world == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    r.world.Score(),
		Best:     r.world.Best(),
		Restarts: r.world.Restarts(),
		Paused:   r.paused,
	}
}

// World exposes the simulation.
func (r *Runner) World() *sim.World {
	return r.world
}

// LastRun returns the most recently ended run, if any.
func (r *Runner) LastRun() *core.RunSummary {
	return r.last
}

// Viewport fits the world onto dst, centered on focus.
func (r *Runner) Viewport(dst *core.Screen, focus core.Vec2) core.Viewport {
	b := r.world.Bounds()
	r.viewport = core.Viewport{
		WorldW:  b.Width,
		WorldH:  b.Height,
		ScreenW: dst.Width(),
		ScreenH: dst.Height(),
		Focus:   focus,
	}
	return r.viewport
}

// CellToWorld maps a screen cell through the last rendered viewport.
func (r *Runner) CellToWorld(x, y int) core.Vec2 {
	return r.viewport.ToWorld(x, y)
}

// DrawEntity fills the cells covered by v.
func DrawEntity(dst *core.Screen, vp core.Viewport, v sim.EntityView, glyph rune, c core.Color) {
	x0, y0, x1, y1 := vp.CellRect(v.Rect())
	dst.FillRect(x0, y0, x1, y1, glyph, c)
}

// DrawHUD writes the score line and the pause box.
func (r *Runner) DrawHUD(dst *core.Screen, extra string) {
	st := r.State()
	text := fmt.Sprintf(" Score: %d  Best: %d  Restarts: %d ", st.Score, st.Best, st.Restarts)
	if extra != "" {
		text += extra + " "
	}
	dst.DrawTextColored(1, 0, text, core.ColorHUD)

	if st.Paused {
		dst.DrawMessage("PAUSED", "Press P to resume")
	}
}
