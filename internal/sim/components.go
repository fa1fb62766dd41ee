package sim

import (
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/demoloop/internal/core"
)

// AssetHandle is an opaque reference to a sprite owned by the frontend.
// The simulation only passes it through.
type AssetHandle string

// Transform is an entity's placement in world space.
type Transform struct {
	Position core.Vec2
	Rotation float32 // radians
}

// Body carries an entity's velocity in world units per second.
type Body struct {
	Velocity core.Vec2
}

// Player marks the single controllable entity.
type Player struct{}

// PipeKind tells the two members of an obstacle pair apart.
type PipeKind uint8

const (
	PipeTop PipeKind = iota
	PipeBottom
)

func (k PipeKind) String() string {
	if k == PipeTop {
		return "top"
	}
	return "bottom"
}

// Pipe is a scrolling obstacle. Both members of a pair share Pair and
// always move and recycle together.
type Pipe struct {
	Kind   PipeKind
	Pair   int
	Passed bool // the player has cleared this pair in the current cycle
}

// Projectile marks a shot fired by the player.
type Projectile struct{}

// Sprite links an entity to a frontend asset and its drawn size.
type Sprite struct {
	Handle AssetHandle
	Size   core.Vec2
}

var (
	transformComp  = donburi.NewComponentType[Transform]()
	bodyComp       = donburi.NewComponentType[Body]()
	playerComp     = donburi.NewComponentType[Player]()
	pipeComp       = donburi.NewComponentType[Pipe]()
	projectileComp = donburi.NewComponentType[Projectile]()
	spriteComp     = donburi.NewComponentType[Sprite]()
)

// Bounds is the visible world extent, centered on the origin.
type Bounds struct {
	Width, Height float32
}

// Rect returns the bounds as a rectangle centered on the origin.
func (b Bounds) Rect() core.Rect {
	return core.RectFromCenter(core.Vec2{}, core.V(b.Width, b.Height))
}
