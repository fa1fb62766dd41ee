package sim

import (
	"github.com/vovakirdan/demoloop/internal/core"
)

// restart puts the scene back to its initial layout when the collision
// check (or an outside request) asked for it. It is level-triggered and
// fires on every frame the flag is set.
func restart(w *World, dt float32) {
	if !w.restartRequested && !w.forceRestart {
		return
	}

	summary := &core.RunSummary{
		Score:    w.score,
		Duration: w.runTime + dt,
		Seed:     w.seed,
		Digest:   w.Digest(),
	}

	if t, b, ok := w.playerBody(); ok {
		*t = Transform{}
		*b = Body{}
	}
	w.removeAll(w.pipes)
	w.removeAll(w.projectiles)
	if w.cfg.Pipes {
		w.spawnPipes()
	}

	w.aim = core.V(1, 0)
	w.best = max(w.best, w.score)
	w.score = 0
	w.runTime = 0
	w.restarts++
	w.restartRequested = false
	w.forceRestart = false
	w.ended = summary

	w.logger.Debug("restart",
		"score", summary.Score,
		"duration", summary.Duration,
		"restarts", w.restarts,
	)
}
