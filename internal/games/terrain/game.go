// Package terrain implements the procedural terrain explorer: the player
// flies over an endless Perlin-noise block field that is generated chunk
// by chunk around them.
package terrain

import (
	"fmt"
	"math"

	"github.com/vovakirdan/demoloop/internal/config"
	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/games/demo"
	"github.com/vovakirdan/demoloop/internal/registry"
	gen "github.com/vovakirdan/demoloop/internal/terrain"
)

// Visual characters for rendering
const (
	PlayerChar = '◆'
	SolidChar  = '▓'
	DenseChar  = '█'
)

// denseAt is the noise magnitude drawn with the darker glyph.
const denseAt = 0.7

// Game implements the terrain explorer demo.
type Game struct {
	demo.Runner
	cfg   config.TerrainConfig
	field *gen.Field
}

// New creates a new terrain explorer instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "terrain"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Terrain Explorer"
}

// Reset loads the configuration, seeds the noise and builds a fresh world.
func (g *Game) Reset(rt core.RuntimeConfig) error {
	cfg, err := config.LoadTerrain(rt.ConfigPath, config.WithLogger(rt.Logger))
	if err != nil {
		return err
	}
	simCfg, err := cfg.Sim()
	if err != nil {
		return err
	}
	genCfg, err := cfg.Generator()
	if err != nil {
		return err
	}
	noise, err := gen.NewGenerator(genCfg, rt.Seed)
	if err != nil {
		return err
	}
	if err := g.Start(simCfg, cfg.Bounds(), rt); err != nil {
		return err
	}
	g.cfg = cfg
	g.field = gen.NewField(noise)
	g.field.Update(core.Vec2{})
	return nil
}

// Step advances the world and streams chunks around the player.
func (g *Game) Step(in core.FrameInput) core.StepResult {
	res := g.Runner.Step(in)
	if g.field == nil {
		return res
	}
	if pos, ok := g.World().PlayerPosition(); ok && g.field.Update(pos) {
		loaded, generated, evicted := g.field.Stats()
		g.Logger().Debug("chunks streamed", "loaded", loaded, "generated", generated, "evicted", evicted)
	}
	return res
}

// Field exposes the loaded terrain.
func (g *Game) Field() *gen.Field {
	return g.field
}

// Render draws the terrain around the player, then the player on top.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w := g.World()
	if w == nil {
		return
	}
	focus, _ := w.PlayerPosition()
	vp := g.Viewport(dst, focus)
	noise := g.field.Generator()

	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			b, ok := g.field.Block(noise.BlockOf(vp.ToWorld(x, y)))
			if !ok || !b.Solid {
				continue
			}
			if math.Abs(float64(b.Noise)) > denseAt {
				dst.SetColored(x, y, DenseChar, core.ColorTerrainDense)
			} else {
				dst.SetColored(x, y, SolidChar, core.ColorTerrain)
			}
		}
	}

	if snap := w.Snapshot(); snap.Player != nil {
		demo.DrawEntity(dst, vp, *snap.Player, PlayerChar, core.ColorPlayer)
	}

	bx, by := noise.BlockOf(focus)
	chunk := noise.ChunkOf(bx, by)
	g.DrawHUD(dst, fmt.Sprintf("Chunk: %d,%d", chunk.X, chunk.Y))
}

// Register the game with the registry
func init() {
	registry.Register("terrain", func() registry.Game {
		return New()
	})
}
