package sim

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/demoloop/internal/core"
)

// EntityView is a read-only copy of a drawable entity.
type EntityView struct {
	Position core.Vec2
	Rotation float32
	Size     core.Vec2
	Handle   AssetHandle
}

// Rect returns the entity's axis-aligned extent.
func (v EntityView) Rect() core.Rect {
	return core.RectFromCenter(v.Position, v.Size)
}

// PipeView is a drawable pipe.
type PipeView struct {
	EntityView
	Kind PipeKind
	Pair int
}

// Snapshot is everything a frontend needs to draw one frame.
type Snapshot struct {
	Player      *EntityView
	Pipes       []PipeView
	Projectiles []EntityView
	Aim         core.Vec2
	Bounds      Bounds
	Score       int
	Best        int
	Restarts    int
}

// Snapshot copies the drawable state out of the world.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Aim:      w.aim,
		Bounds:   w.bounds,
		Score:    w.score,
		Best:     w.Best(),
		Restarts: w.restarts,
	}
	if w.players.Count(w.ents) == 1 {
		e, _ := w.players.First(w.ents)
		if v, ok := view(e); ok {
			s.Player = &v
		}
	}
	for _, e := range w.sortedPipes() {
		p := pipeComp.Get(e)
		if v, ok := view(e); ok {
			s.Pipes = append(s.Pipes, PipeView{EntityView: v, Kind: p.Kind, Pair: p.Pair})
		}
	}
	for _, e := range w.sortedProjectiles() {
		if v, ok := view(e); ok {
			s.Projectiles = append(s.Projectiles, v)
		}
	}
	return s
}

func view(e *donburi.Entry) (EntityView, bool) {
	if !e.HasComponent(transformComp) {
		return EntityView{}, false
	}
	t := transformComp.Get(e)
	v := EntityView{Position: t.Position, Rotation: t.Rotation}
	if e.HasComponent(spriteComp) {
		sp := spriteComp.Get(e)
		v.Size = sp.Size
		v.Handle = sp.Handle
	}
	return v, true
}

// sortedProjectiles returns the shots in entity order.
func (w *World) sortedProjectiles() []*donburi.Entry {
	var out []*donburi.Entry
	w.projectiles.Each(w.ents, func(e *donburi.Entry) {
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Entity() < out[j].Entity()
	})
	return out
}

// Digest hashes the simulation state. Two worlds built from the same config
// and seed and fed the same frames produce the same digest.
func (w *World) Digest() uint64 {
	h := xxhash.New()
	var buf [4]byte
	putF := func(f float32) {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		_, _ = h.Write(buf[:])
	}
	putV := func(v core.Vec2) {
		putF(v.X)
		putF(v.Y)
	}

	putBody := func(e *donburi.Entry) {
		if !e.HasComponent(transformComp) || !e.HasComponent(bodyComp) {
			return
		}
		t, b := transformComp.Get(e), bodyComp.Get(e)
		putV(t.Position)
		putF(t.Rotation)
		putV(b.Velocity)
	}

	if e, ok := w.players.First(w.ents); ok {
		putBody(e)
	}
	for _, e := range w.sortedProjectiles() {
		putBody(e)
	}
	for _, e := range w.sortedPipes() {
		p := pipeComp.Get(e)
		binary.LittleEndian.PutUint32(buf[:], uint32(p.Pair)<<1|uint32(p.Kind))
		_, _ = h.Write(buf[:])
		putV(transformComp.Get(e).Position)
	}
	binary.LittleEndian.PutUint32(buf[:], uint32(w.score))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
