package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/demoloop/internal/core"
)

func TestDiagonalMovementIsNormalized(t *testing.T) {
	w := newWorld(t, TopDown())

	w.Tick([]core.KeyEvent{core.Press(core.KeyD), core.Press(core.KeyW)}, 0.1)

	_, b := playerBody(t, w)
	if !near(b.Velocity.Len(), 100) {
		t.Errorf("diagonal speed = %v, expected 100", b.Velocity.Len())
	}
	tr, _ := playerBody(t, w)
	d := float32(100 * 0.1 / math.Sqrt2)
	if !near(tr.Position.X, d) || !near(tr.Position.Y, d) {
		t.Errorf("position = %+v, expected (%v, %v)", tr.Position, d, d)
	}
}

func TestOpposingKeysStopMovement(t *testing.T) {
	w := newWorld(t, TopDown())

	w.Tick([]core.KeyEvent{core.Press(core.KeyA), core.Press(core.KeyD)}, 0.1)
	_, b := playerBody(t, w)
	if b.Velocity != (core.Vec2{}) {
		t.Errorf("velocity = %+v, expected zero", b.Velocity)
	}
	if math.IsNaN(float64(b.Velocity.X)) {
		t.Error("zero axis produced NaN")
	}

	w.Tick([]core.KeyEvent{core.Release(core.KeyA)}, 0.1)
	_, b = playerBody(t, w)
	if !near(b.Velocity.X, 100) {
		t.Errorf("releasing Left with Right held: velocity.x = %v, expected 100", b.Velocity.X)
	}
}

func TestAimFollowsCursor(t *testing.T) {
	w := newWorld(t, TopDown())

	if aim := w.Aim(); aim != core.V(1, 0) {
		t.Fatalf("initial aim = %+v, expected (1, 0)", aim)
	}

	w.SetCursor(&core.Vec2{X: 0, Y: 40})
	w.Tick(nil, 0.016)
	if !near(w.Aim().X, 0) || !near(w.Aim().Y, 1) {
		t.Errorf("aim = %+v, expected (0, 1)", w.Aim())
	}
	tr, _ := playerBody(t, w)
	if !near(tr.Rotation, math.Pi/2) {
		t.Errorf("rotation = %v, expected pi/2", tr.Rotation)
	}

	// A cursor right on the player keeps the previous aim.
	w.SetCursor(&core.Vec2{})
	w.Tick(nil, 0.016)
	if !near(w.Aim().Y, 1) {
		t.Errorf("degenerate cursor changed aim to %+v", w.Aim())
	}

	// Off-window: the movement direction takes over.
	w.SetCursor(nil)
	w.Tick([]core.KeyEvent{core.Press(core.KeyA)}, 0.016)
	if !near(w.Aim().X, -1) {
		t.Errorf("aim without cursor = %+v, expected (-1, 0)", w.Aim())
	}
}

func TestShootAndCull(t *testing.T) {
	w := newWorld(t, TopDown())
	w.SetCursor(&core.Vec2{X: 0, Y: -10})

	w.Tick([]core.KeyEvent{core.Press(core.KeySpace)}, 0.1)
	if w.Projectiles() != 1 {
		t.Fatalf("Projectiles() = %d after one press, expected 1", w.Projectiles())
	}
	s := w.Snapshot()
	if len(s.Projectiles) != 1 || !near(s.Projectiles[0].Position.Y, -40) {
		t.Errorf("projectile snapshot = %+v, expected y = -40", s.Projectiles)
	}

	// Holding does not fire again.
	w.Tick(nil, 0.1)
	if w.Projectiles() != 1 {
		t.Errorf("holding Shoot fired again: %d projectiles", w.Projectiles())
	}

	// 400 units/s leaves a 720-high world in under a second.
	for i := 0; i < 10; i++ {
		w.Tick(nil, 0.1)
	}
	if w.Projectiles() != 0 {
		t.Errorf("projectile outside the world was not culled")
	}
}

func TestPlayerStaysInsideWorld(t *testing.T) {
	tests := []struct {
		name     string
		key      core.Key
		expected core.Vec2
	}{
		{"right", core.KeyD, core.V(335, 0)},
		{"left", core.KeyA, core.V(-335, 0)},
		{"up", core.KeyW, core.V(0, 335)},
		{"down", core.KeyS, core.V(0, -335)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, TopDown())
			w.Tick([]core.KeyEvent{core.Press(tt.key)}, 0.1)
			for i := 0; i < 100; i++ {
				w.Tick(nil, 0.1)
			}
			tr, _ := playerBody(t, w)
			if !near(tr.Position.X, tt.expected.X) || !near(tr.Position.Y, tt.expected.Y) {
				t.Errorf("position = %+v, expected %+v", tr.Position, tt.expected)
			}
		})
	}
}

func TestShotFromTheEdgeSurvives(t *testing.T) {
	w := newWorld(t, TopDown())
	w.Tick([]core.KeyEvent{core.Press(core.KeyD)}, 0.1)
	for i := 0; i < 100; i++ {
		w.Tick(nil, 0.1)
	}

	w.SetCursor(&core.Vec2{})
	w.Tick([]core.KeyEvent{core.Press(core.KeySpace)}, 0.1)
	if w.Projectiles() != 1 {
		t.Fatalf("Projectiles() = %d, shot fired inward from the edge was culled", w.Projectiles())
	}
	s := w.Snapshot()
	if !near(s.Projectiles[0].Position.X, 295) {
		t.Errorf("projectile x = %v, expected 295", s.Projectiles[0].Position.X)
	}
}

func TestRestartClearsProjectiles(t *testing.T) {
	w := newWorld(t, TopDown())
	w.Tick([]core.KeyEvent{core.Press(core.KeySpace)}, 0.01)
	w.Tick([]core.KeyEvent{core.Release(core.KeySpace)}, 0.01)
	w.Tick([]core.KeyEvent{core.Press(core.KeySpace)}, 0.01)
	if w.Projectiles() != 2 {
		t.Fatalf("Projectiles() = %d, expected 2", w.Projectiles())
	}

	w.RequestRestart()
	if ended := w.Tick(nil, 0.01); ended == nil {
		t.Fatal("forced restart should end the run")
	}
	if w.Projectiles() != 0 {
		t.Errorf("restart left %d projectiles", w.Projectiles())
	}
	if w.Aim() != core.V(1, 0) {
		t.Errorf("restart did not reset aim: %+v", w.Aim())
	}
}

func TestSeededWorldsReplayIdentically(t *testing.T) {
	script := func(frame int) []core.KeyEvent {
		switch frame % 37 {
		case 0:
			return []core.KeyEvent{core.Press(core.KeySpace)}
		case 3:
			return []core.KeyEvent{core.Release(core.KeySpace)}
		}
		return nil
	}
	run := func(seed int64) (uint64, int) {
		w, err := New(FlappyBird(), screen, WithSeed(seed))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		for i := 0; i < 600; i++ {
			w.Tick(script(i), 1.0/60)
		}
		return w.Digest(), w.Restarts()
	}

	a, ra := run(42)
	b, rb := run(42)
	if a != b || ra != rb {
		t.Errorf("same seed diverged: %x/%d vs %x/%d", a, ra, b, rb)
	}
	c, _ := run(43)
	if a == c {
		t.Errorf("different seeds produced the same digest %x", a)
	}
}

func TestSnapshot(t *testing.T) {
	w := newWorld(t, FlappyBird())
	s := w.Snapshot()
	if s.Player == nil || s.Player.Handle != "bird" || s.Player.Size != core.V(50, 50) {
		t.Errorf("player view = %+v", s.Player)
	}
	if len(s.Pipes) != 16 {
		t.Errorf("len(Pipes) = %d, expected 16", len(s.Pipes))
	}
	for _, p := range s.Pipes {
		if p.Size != core.V(100, 500) || p.Handle != "pipe" {
			t.Errorf("pipe view = %+v", p)
			break
		}
	}
	if s.Bounds != screen {
		t.Errorf("Bounds = %+v", s.Bounds)
	}
}
