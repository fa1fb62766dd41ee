package sim

import (
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/demoloop/internal/core"
)

// aim points the player at the cursor. Without a cursor the last movement
// direction is used; with neither the previous aim is kept.
func aim(w *World, _ float32) {
	e, ok := w.player()
	if !ok {
		return
	}
	t := transformComp.Get(e)

	var dir core.Vec2
	if w.cursor != nil {
		dir = w.cursor.Sub(t.Position).NormalizeOrZero()
	} else {
		dir = w.input.Axis().NormalizeOrZero()
	}
	if !dir.IsZero() {
		w.aim = dir
	}
	t.Rotation = w.aim.Angle()
}

// shoot fires one projectile per Shoot press, from the player along the aim.
func shoot(w *World, _ float32) {
	if !w.input.JustPressed(core.ActionShoot) {
		return
	}
	e, ok := w.player()
	if !ok {
		return
	}
	from := transformComp.Get(e).Position

	p := w.ents.Entry(w.ents.Create(projectileComp, transformComp, bodyComp, spriteComp))
	transformComp.SetValue(p, Transform{Position: from, Rotation: w.aim.Angle()})
	bodyComp.SetValue(p, Body{Velocity: w.aim.Scale(w.cfg.ProjectileSpeed)})
	spriteComp.SetValue(p, Sprite{
		Handle: w.cfg.Handles.Projectile,
		Size:   core.V(w.cfg.ProjectileSize, w.cfg.ProjectileSize),
	})
}

// confine keeps the player's whole sprite inside the world extent.
// Velocity is left alone so held keys keep pressing the wall.
func confine(w *World, _ float32) {
	e, ok := w.player()
	if !ok {
		return
	}
	t := transformComp.Get(e)
	inset := core.V(w.bounds.Width-w.cfg.PlayerSize, w.bounds.Height-w.cfg.PlayerSize)
	area := core.RectFromCenter(core.Vec2{}, inset)
	t.Position.X = core.Clamp(t.Position.X, area.Min.X, area.Max.X)
	t.Position.Y = core.Clamp(t.Position.Y, area.Min.Y, area.Max.Y)
}

// cullProjectiles despawns shots whose sprite no longer overlaps the world.
func cullProjectiles(w *World, _ float32) {
	area := w.bounds.Rect()
	var gone []donburi.Entity
	w.projectiles.Each(w.ents, func(e *donburi.Entry) {
		if !e.HasComponent(transformComp) {
			gone = append(gone, e.Entity())
			return
		}
		var size core.Vec2
		if e.HasComponent(spriteComp) {
			size = spriteComp.Get(e).Size
		}
		if !core.RectFromCenter(transformComp.Get(e).Position, size).Intersects(area) {
			gone = append(gone, e.Entity())
		}
	})
	for _, e := range gone {
		w.ents.Remove(e)
	}
}

// Aim returns the current unit aim direction.
func (w *World) Aim() core.Vec2 {
	return w.aim
}

// Projectiles returns the number of live projectiles.
func (w *World) Projectiles() int {
	return w.projectiles.Count(w.ents)
}
