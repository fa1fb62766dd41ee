package core

// Viewport maps world coordinates (y-up, origin at the center) onto screen
// cells (y-down, origin top-left). The whole world rectangle centered on
// Focus is stretched over the screen.
type Viewport struct {
	WorldW, WorldH   float32
	ScreenW, ScreenH int
	Focus            Vec2
}

// NewViewport creates a viewport centered on the world origin.
func NewViewport(worldW, worldH float32, screenW, screenH int) Viewport {
	return Viewport{WorldW: worldW, WorldH: worldH, ScreenW: screenW, ScreenH: screenH}
}

// CellSize returns the world extent of one screen cell.
func (v Viewport) CellSize() Vec2 {
	if v.ScreenW <= 0 || v.ScreenH <= 0 {
		return Vec2{}
	}
	return Vec2{X: v.WorldW / float32(v.ScreenW), Y: v.WorldH / float32(v.ScreenH)}
}

// ToCell converts a world position into a cell position. Positions outside
// the world rectangle map to cells outside the screen.
func (v Viewport) ToCell(p Vec2) (int, int) {
	cs := v.CellSize()
	if cs.X == 0 || cs.Y == 0 {
		return -1, -1
	}
	rel := p.Sub(v.Focus)
	fx := (rel.X + v.WorldW/2) / cs.X
	fy := (v.WorldH/2 - rel.Y) / cs.Y
	return floor(fx), floor(fy)
}

// ToWorld converts a cell position to the world position of its center.
func (v Viewport) ToWorld(x, y int) Vec2 {
	cs := v.CellSize()
	wx := (float32(x)+0.5)*cs.X - v.WorldW/2
	wy := v.WorldH/2 - (float32(y)+0.5)*cs.Y
	return Vec2{X: wx, Y: wy}.Add(v.Focus)
}

// CellRect converts a world rectangle into the half-open cell range
// [x0,x1)×[y0,y1) it covers. Rectangles are never shrunk below one cell.
func (v Viewport) CellRect(r Rect) (x0, y0, x1, y1 int) {
	x0, y1 = v.ToCell(r.Min)
	x1, y0 = v.ToCell(r.Max)
	y1++
	x1++
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func floor(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}
