package sim

import (
	"github.com/vovakirdan/demoloop/internal/core"
)

// pipeY returns the centers of a pair's members for a vertical offset.
func (w *World) pipeY(offset float32) (top, bottom float32) {
	d := w.cfg.Pipe.Height/2 + w.cfg.Pipe.VerticalGap
	return offset + d, offset - d
}

// sampleOffset draws a vertical pair offset in [0, h/3).
func (w *World) sampleOffset() float32 {
	return w.rng.Float32() * w.bounds.Height / 3
}

// spawnPipes lays out the initial obstacle field to the right of the origin,
// one pair every HorizontalGap.
func (w *World) spawnPipes() {
	pc := w.cfg.Pipe
	size := core.V(pc.Width, pc.Height)
	for i := 1; i <= pc.Count; i++ {
		x := float32(i) * pc.HorizontalGap
		top, bottom := w.pipeY(w.sampleOffset())
		w.spawnPipe(i, PipeTop, core.V(x, top), size)
		w.spawnPipe(i, PipeBottom, core.V(x, bottom), size)
	}
}

func (w *World) spawnPipe(pair int, kind PipeKind, at, size core.Vec2) {
	e := w.ents.Entry(w.ents.Create(pipeComp, transformComp, spriteComp))
	pipeComp.SetValue(e, Pipe{Kind: kind, Pair: pair})
	transformComp.SetValue(e, Transform{Position: at})
	spriteComp.SetValue(e, Sprite{Handle: w.cfg.Handles.Pipe, Size: size})
}

// scrollPipes moves every pipe left and recycles pairs that fully left the
// screen to the back of the queue with a fresh offset. It runs whether or
// not a restart is pending.
func scrollPipes(w *World, dt float32) {
	pc := w.cfg.Pipe
	left := -w.bounds.Width / 2
	dx := w.scrollSpeed * dt
	wrap := float32(pc.Count) * pc.HorizontalGap

	playerX, hasPlayer := float32(0), false
	if e, ok := w.player(); ok {
		playerX, hasPlayer = transformComp.Get(e).Position.X, true
	}

	// Both members of a pair share an x, so they cross the edge in the same
	// frame and must receive the same offset.
	offsets := make(map[int]float32)
	var frameOffset *float32
	offsetFor := func(pair int) float32 {
		if pc.Resample == ResamplePerFrame {
			if frameOffset == nil {
				o := w.sampleOffset()
				frameOffset = &o
			}
			return *frameOffset
		}
		o, ok := offsets[pair]
		if !ok {
			o = w.sampleOffset()
			offsets[pair] = o
		}
		return o
	}

	for _, e := range w.sortedPipes() {
		p, t := pipeComp.Get(e), transformComp.Get(e)
		t.Position.X -= dx
		if t.Position.X+pc.Width/2 < left {
			t.Position.X += wrap
			top, bottom := w.pipeY(offsetFor(p.Pair))
			if p.Kind == PipeTop {
				t.Position.Y = top
			} else {
				t.Position.Y = bottom
			}
			p.Passed = false
			continue
		}
		if hasPlayer && !p.Passed && t.Position.X+pc.Width/2 < playerX {
			p.Passed = true
			if p.Kind == PipeTop {
				w.score++
			}
		}
	}
}
