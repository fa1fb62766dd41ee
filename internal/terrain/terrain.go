// Package terrain generates an endless block field from 2D Perlin noise.
// The field is split into square chunks that are generated on demand
// around a focus point and dropped again once the focus moves away.
package terrain

import (
	"errors"
	"fmt"
	"math"
	"sort"

	perlin "github.com/aquilax/go-perlin"

	"github.com/vovakirdan/demoloop/internal/core"
)

// Config parameterizes the generator.
type Config struct {
	ChunkSize int     // blocks per chunk side
	BlockSize float32 // world units per block side
	NoiseZoom float64 // noise-space distance between neighboring blocks
	Threshold float64 // a block is solid where |noise| exceeds this
	Radius    int     // chunks kept loaded on each side of the focus chunk

	// Perlin parameters: weight between octaves, frequency multiplier,
	// and the octave count.
	Alpha   float64
	Beta    float64
	Octaves int32
}

// DefaultConfig returns 10x10 chunks of 16-unit blocks sampled every 0.1
// noise units.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 10,
		BlockSize: 16,
		NoiseZoom: 0.1,
		Threshold: 0.5,
		Radius:    2,
		Alpha:     2,
		Beta:      2,
		Octaves:   3,
	}
}

var errInvalidConfig = errors.New("terrain: invalid config")

// Validate checks that the field can be generated.
func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", errInvalidConfig, c.ChunkSize)
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: block size must be positive, got %v", errInvalidConfig, c.BlockSize)
	case c.NoiseZoom <= 0:
		return fmt.Errorf("%w: noise zoom must be positive, got %v", errInvalidConfig, c.NoiseZoom)
	case c.Radius < 0:
		return fmt.Errorf("%w: radius must not be negative, got %d", errInvalidConfig, c.Radius)
	case c.Octaves <= 0:
		return fmt.Errorf("%w: octaves must be positive, got %d", errInvalidConfig, c.Octaves)
	}
	return nil
}

// ChunkCoord addresses a chunk in chunk units.
type ChunkCoord struct {
	X, Y int
}

// Block is one generated cell.
type Block struct {
	Noise float32 // raw sample, roughly in [-1, 1]
	Solid bool
}

// Chunk is a ChunkSize x ChunkSize block grid, row-major from its
// bottom-left block.
type Chunk struct {
	Coord  ChunkCoord
	Blocks []Block
	size   int
}

// At returns the block at local coordinates.
func (c *Chunk) At(x, y int) Block {
	return c.Blocks[y*c.size+x]
}

// Solid counts the solid blocks in the chunk.
func (c *Chunk) Solid() int {
	n := 0
	for _, b := range c.Blocks {
		if b.Solid {
			n++
		}
	}
	return n
}

// Generator samples noise into chunks. It is stateless apart from the
// noise permutation, so the same seed always yields the same field.
type Generator struct {
	cfg   Config
	noise *perlin.Perlin
}

// NewGenerator creates a generator for cfg seeded with seed.
func NewGenerator(cfg Config, seed int64) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		cfg:   cfg,
		noise: perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, seed),
	}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Sample evaluates the block at global block coordinates.
func (g *Generator) Sample(bx, by int) Block {
	n := g.noise.Noise2D(float64(bx)*g.cfg.NoiseZoom, float64(by)*g.cfg.NoiseZoom)
	return Block{Noise: float32(n), Solid: math.Abs(n) > g.cfg.Threshold}
}

// Generate builds the chunk at c.
func (g *Generator) Generate(c ChunkCoord) *Chunk {
	size := g.cfg.ChunkSize
	ch := &Chunk{Coord: c, Blocks: make([]Block, size*size), size: size}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			ch.Blocks[y*size+x] = g.Sample(c.X*size+x, c.Y*size+y)
		}
	}
	return ch
}

// BlockOf returns the global block containing world point p. Block (0, 0)
// is centered on the origin.
func (g *Generator) BlockOf(p core.Vec2) (bx, by int) {
	b := g.cfg.BlockSize
	return floorDiv(p.X+b/2, b), floorDiv(p.Y+b/2, b)
}

// BlockCenter returns the world position of a global block's center.
func (g *Generator) BlockCenter(bx, by int) core.Vec2 {
	return core.V(float32(bx)*g.cfg.BlockSize, float32(by)*g.cfg.BlockSize)
}

// ChunkOf returns the chunk holding a global block.
func (g *Generator) ChunkOf(bx, by int) ChunkCoord {
	n := g.cfg.ChunkSize
	return ChunkCoord{X: floorDivInt(bx, n), Y: floorDivInt(by, n)}
}

func floorDiv(v, d float32) int {
	return int(math.Floor(float64(v / d)))
}

func floorDivInt(v, d int) int {
	q := v / d
	if v%d != 0 && (v < 0) != (d < 0) {
		q--
	}
	return q
}

// Field keeps the chunks around a moving focus point.
type Field struct {
	gen    *Generator
	chunks map[ChunkCoord]*Chunk
	center ChunkCoord
	primed bool

	generated int
	evicted   int
}

// NewField creates an empty field over gen. Call Update to load chunks.
func NewField(gen *Generator) *Field {
	return &Field{gen: gen, chunks: make(map[ChunkCoord]*Chunk)}
}

// Generator returns the field's generator.
func (f *Field) Generator() *Generator {
	return f.gen
}

// Update loads every chunk within Radius of the focus chunk and drops the
// ones further away. It reports whether the loaded set changed.
func (f *Field) Update(focus core.Vec2) bool {
	center := f.gen.ChunkOf(f.gen.BlockOf(focus))
	if f.primed && center == f.center {
		return false
	}
	f.center, f.primed = center, true

	r := f.gen.cfg.Radius
	for c := range f.chunks {
		if abs(c.X-center.X) > r || abs(c.Y-center.Y) > r {
			delete(f.chunks, c)
			f.evicted++
		}
	}
	for y := center.Y - r; y <= center.Y+r; y++ {
		for x := center.X - r; x <= center.X+r; x++ {
			c := ChunkCoord{X: x, Y: y}
			if _, ok := f.chunks[c]; !ok {
				f.chunks[c] = f.gen.Generate(c)
				f.generated++
			}
		}
	}
	return true
}

// Block returns a global block if its chunk is loaded.
func (f *Field) Block(bx, by int) (Block, bool) {
	c := f.gen.ChunkOf(bx, by)
	ch, ok := f.chunks[c]
	if !ok {
		return Block{}, false
	}
	n := f.gen.cfg.ChunkSize
	return ch.At(bx-c.X*n, by-c.Y*n), true
}

// SolidAt reports whether the loaded block under p is solid. Unloaded
// space is empty.
func (f *Field) SolidAt(p core.Vec2) bool {
	b, ok := f.Block(f.gen.BlockOf(p))
	return ok && b.Solid
}

// Chunks returns the loaded chunks ordered by row then column.
func (f *Field) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(f.chunks))
	for _, ch := range f.chunks {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coord, out[j].Coord
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

// Stats reports the cache size and lifetime generation counters.
func (f *Field) Stats() (loaded, generated, evicted int) {
	return len(f.chunks), f.generated, f.evicted
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
