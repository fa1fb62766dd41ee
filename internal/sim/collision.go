package sim

import (
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/demoloop/internal/core"
)

// checkCollision decides this frame's restart flag. The flag is assigned,
// not accumulated: a frame without a hit clears it.
func checkCollision(w *World, _ float32) {
	e, ok := w.player()
	if !ok {
		w.restartRequested = false
		return
	}
	pos := transformComp.Get(e).Position
	w.restartRequested = (w.cfg.CheckBounds && w.outOfBounds(pos)) || w.hitsPipe(pos)
}

// outOfBounds reports whether p left the vertical extent. Both edges count
// as inside.
func (w *World) outOfBounds(p core.Vec2) bool {
	half := w.bounds.Height / 2
	return p.Y < -half || p.Y > half
}

// hitsPipe reports whether p lies inside any pipe, edges included.
func (w *World) hitsPipe(p core.Vec2) bool {
	size := core.V(w.cfg.Pipe.Width, w.cfg.Pipe.Height)
	hit := false
	w.pipes.Each(w.ents, func(e *donburi.Entry) {
		if !hit && core.RectFromCenter(transformComp.Get(e).Position, size).Contains(p) {
			hit = true
		}
	})
	return hit
}

// RestartPending reports the flag written by the last collision check.
func (w *World) RestartPending() bool {
	return w.restartRequested
}
