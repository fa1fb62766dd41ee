// Package sim is the real-time entity update loop shared by every demo:
// input normalization, gravity and velocity integration, bounds and
// obstacle checks, the scrolling obstacle spawner, and the restart state
// machine.
//
// All per-frame state lives in World and every frame runs through
// World.Tick, which invokes a fixed, ordered pipeline of stages. Nothing is
// global and nothing runs concurrently.
package sim

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/demoloop/internal/core"
)

// ErrPlayerLost means the player entity disappeared after it was spawned.
var ErrPlayerLost = errors.New("sim: player entity lost")

// World is the complete simulation state of one demo session.
type World struct {
	cfg      Config
	bounds   Bounds
	seed     int64
	rng      *rand.Rand
	logger   *log.Logger
	pipeline Pipeline

	ents        donburi.World
	players     *donburi.Query
	movers      *donburi.Query // transform + body
	pipes       *donburi.Query
	projectiles *donburi.Query

	input       core.InputState
	pendingKeys []core.KeyEvent
	cursor      *core.Vec2
	aim         core.Vec2

	restartRequested bool // written by collision, cleared by restart
	forceRestart     bool // set from outside the frame
	playerSpawned    bool
	lostReported     bool
	scrollSpeed      float32

	score    int
	best     int
	restarts int
	runTime  float32
	elapsed  float32
	frames   uint64
	ended    *core.RunSummary
}

// Option customizes a World at construction.
type Option func(*World)

// WithSeed makes obstacle placement reproducible.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.seed = seed
	}
}

// WithLogger routes simulation logs to l.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a world, spawns the player at the origin and, when enabled,
// the initial obstacle field.
func New(cfg Config, bounds Bounds, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, fmt.Errorf("sim: world bounds must be positive, got %vx%v", bounds.Width, bounds.Height)
	}

	w := &World{
		cfg:         cfg,
		bounds:      bounds,
		seed:        time.Now().UnixNano(),
		logger:      log.New(io.Discard),
		scrollSpeed: cfg.Pipe.ScrollSpeed,
		aim:         core.V(1, 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.rng = rand.New(rand.NewSource(w.seed))

	w.ents = donburi.NewWorld()
	w.players = donburi.NewQuery(filter.Contains(playerComp))
	w.movers = donburi.NewQuery(filter.Contains(transformComp, bodyComp))
	w.pipes = donburi.NewQuery(filter.Contains(pipeComp, transformComp))
	w.projectiles = donburi.NewQuery(filter.Contains(projectileComp))

	w.pipeline = buildPipeline(cfg)
	w.spawnPlayer()
	if cfg.Pipes {
		w.spawnPipes()
	}

	w.logger.Debug("world created",
		"seed", w.seed,
		"bounds", fmt.Sprintf("%vx%v", bounds.Width, bounds.Height),
		"stages", w.pipeline.Names(),
	)
	return w, nil
}

// Tick advances the world by one frame. dt is the frame clock's delta in
// seconds; keys are the raw key events collected since the previous frame.
func (w *World) Tick(keys []core.KeyEvent, dt float32) *core.RunSummary {
	w.pendingKeys = keys
	w.ended = nil
	for _, st := range w.pipeline {
		st.Run(w, dt)
	}
	w.pendingKeys = nil
	w.frames++
	w.elapsed += dt
	if w.ended == nil {
		w.runTime += dt
	}
	return w.ended
}

// SetCursor supplies the cursor's world position for the next frames.
// nil means the cursor is outside the window.
func (w *World) SetCursor(p *core.Vec2) {
	if p == nil {
		w.cursor = nil
		return
	}
	c := *p
	w.cursor = &c
}

// SetScrollSpeed changes the obstacle scroll speed, e.g. for difficulty.
func (w *World) SetScrollSpeed(speed float32) {
	w.scrollSpeed = speed
}

// ScrollSpeed returns the current obstacle scroll speed.
func (w *World) ScrollSpeed() float32 {
	return w.scrollSpeed
}

// RequestRestart resets the scene during the next frame's restart stage.
func (w *World) RequestRestart() {
	w.forceRestart = true
}

// Input exposes the normalized input state.
func (w *World) Input() *core.InputState {
	return &w.input
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Bounds returns the immutable world extent.
func (w *World) Bounds() Bounds {
	return w.bounds
}

// Seed returns the seed of the world's random source.
func (w *World) Seed() int64 {
	return w.seed
}

// Score returns the number of pipe pairs cleared in the current run.
func (w *World) Score() int {
	return w.score
}

// Best returns the highest score of any run in this world.
func (w *World) Best() int {
	return max(w.best, w.score)
}

// Restarts returns how many resets have happened.
func (w *World) Restarts() int {
	return w.restarts
}

// Elapsed returns the simulated seconds since the world was created.
func (w *World) Elapsed() float32 {
	return w.elapsed
}

// RunTime returns the simulated seconds since the last reset.
func (w *World) RunTime() float32 {
	return w.runTime
}

// Frames returns the number of ticks processed.
func (w *World) Frames() uint64 {
	return w.frames
}

// PlayerPosition returns the player's position, if there is a player.
func (w *World) PlayerPosition() (core.Vec2, bool) {
	e, ok := w.player()
	if !ok {
		return core.Vec2{}, false
	}
	return transformComp.Get(e).Position, true
}

func (w *World) spawnPlayer() {
	e := w.ents.Entry(w.ents.Create(playerComp, transformComp, bodyComp, spriteComp))
	spriteComp.SetValue(e, Sprite{
		Handle: w.cfg.Handles.Player,
		Size:   core.V(w.cfg.PlayerSize, w.cfg.PlayerSize),
	})
	w.playerSpawned = true
}

// player looks up the player entity. A player that was never spawned is
// silently absent; one that vanished afterwards is reported once.
func (w *World) player() (*donburi.Entry, bool) {
	var err error
	switch n := w.players.Count(w.ents); n {
	case 0:
		err = errors.New("no player entity")
	case 1:
		e, _ := w.players.First(w.ents)
		if e.HasComponent(transformComp) {
			w.lostReported = false
			return e, true
		}
		err = errors.New("player has no transform")
	default:
		err = fmt.Errorf("%d player entities", n)
	}
	if w.playerSpawned && !w.lostReported {
		w.logger.Warn("skipping player stages", "error", fmt.Errorf("%w: %w", ErrPlayerLost, err))
		w.lostReported = true
	}
	return nil, false
}

// playerBody returns the player's transform and body, if both exist.
func (w *World) playerBody() (*Transform, *Body, bool) {
	e, ok := w.player()
	if !ok || !e.HasComponent(bodyComp) {
		return nil, nil, false
	}
	return transformComp.Get(e), bodyComp.Get(e), true
}

// removeAll deletes every entity matched by q. Entities are collected
// first since the query must not change while it is iterated.
func (w *World) removeAll(q *donburi.Query) {
	var doomed []donburi.Entity
	q.Each(w.ents, func(e *donburi.Entry) {
		doomed = append(doomed, e.Entity())
	})
	for _, e := range doomed {
		w.ents.Remove(e)
	}
}

// sortedPipes returns the pipe entries ordered by pair and then kind, so
// anything drawing from the random source sees them in a fixed order.
func (w *World) sortedPipes() []*donburi.Entry {
	var out []*donburi.Entry
	w.pipes.Each(w.ents, func(e *donburi.Entry) {
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := pipeComp.Get(out[i]), pipeComp.Get(out[j])
		if a.Pair != b.Pair {
			return a.Pair < b.Pair
		}
		return a.Kind < b.Kind
	})
	return out
}
