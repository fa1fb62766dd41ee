package sim

import (
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/demoloop/internal/core"
)

func readInput(w *World, _ float32) {
	w.input.Apply(w.pendingKeys, w.cfg.KeyMap)
}

// jump overwrites the player's vertical velocity on the frame Jump goes down.
// Holding the key does nothing more.
func jump(w *World, _ float32) {
	if !w.input.JustPressed(core.ActionJump) {
		return
	}
	if _, body, ok := w.playerBody(); ok {
		body.Velocity.Y = w.cfg.JumpSpeed
	}
}

// move drives the player's velocity from the discrete input axis.
func move(w *World, _ float32) {
	_, body, ok := w.playerBody()
	if !ok {
		return
	}
	axis := w.input.Axis()
	if w.cfg.NormalizeAxis {
		axis = axis.NormalizeOrZero()
	}
	body.Velocity = axis.Scale(w.cfg.MoveSpeed)
}

func applyGravity(w *World, dt float32) {
	g := w.cfg.GravityAccel * dt
	bodyComp.Each(w.ents, func(e *donburi.Entry) {
		bodyComp.Get(e).Velocity.Y -= g
	})
}

// applyPhysics integrates position from the velocity already updated this
// frame (semi-implicit Euler).
func applyPhysics(w *World, dt float32) {
	w.movers.Each(w.ents, func(e *donburi.Entry) {
		t := transformComp.Get(e)
		t.Position = t.Position.Add(bodyComp.Get(e).Velocity.Scale(dt))
	})
}
