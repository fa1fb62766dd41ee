// Package core provides fundamental types and utilities shared by the
// simulation and the platform layers. It never imports the terminal stack,
// keeping game logic pure and testable.
package core

import (
	"cmp"
	"math"
)

// Vec2 is a 2D vector in world units. World space is y-up with the origin
// at the center of the visible area.
type Vec2 struct {
	X, Y float32
}

// V creates a vector from its components.
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when
// v has no usable length. The result is never NaN.
func (v Vec2) NormalizeOrZero() Vec2 {
	l := v.Len()
	if l == 0 || math.IsInf(float64(l), 0) || math.IsNaN(float64(l)) {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Angle returns the angle of v in radians, measured from the +X axis.
func (v Vec2) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// Rect represents an axis-aligned bounding box used for collision detection.
type Rect struct {
	Min, Max Vec2
}

// RectFromCenter creates a rectangle centered on c with the given full size.
func RectFromCenter(c, size Vec2) Rect {
	half := size.Scale(0.5)
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

// Width returns the horizontal extent.
func (r Rect) Width() float32 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent.
func (r Rect) Height() float32 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as an overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.Min.X >= other.Max.X || other.Min.X >= r.Max.X {
		return false
	}
	if r.Min.Y >= other.Max.Y || other.Min.Y >= r.Max.Y {
		return false
	}
	return true
}

// Clamp restricts a value to be within [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
