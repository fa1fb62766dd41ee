package core

import (
	"math"
	"testing"
)

func TestVecArithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(3, -4)

	if got := a.Add(b); got != V(4, -2) {
		t.Errorf("Add() = %v, expected (4, -2)", got)
	}
	if got := a.Sub(b); got != V(-2, 6) {
		t.Errorf("Sub() = %v, expected (-2, 6)", got)
	}
	if got := b.Scale(0.5); got != V(1.5, -2) {
		t.Errorf("Scale() = %v, expected (1.5, -2)", got)
	}
	if got := b.Len(); got != 5 {
		t.Errorf("Len() = %f, expected 5", got)
	}
}

func TestNormalizeOrZero(t *testing.T) {
	tests := []struct {
		name     string
		in       Vec2
		expected Vec2
	}{
		{"zero stays zero", V(0, 0), V(0, 0)},
		{"unit x", V(3, 0), V(1, 0)},
		{"negative y", V(0, -7), V(0, -1)},
		{"infinite length", V(float32(math.Inf(1)), 0), V(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.NormalizeOrZero()
			if got != tc.expected {
				t.Errorf("NormalizeOrZero(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}

	diag := V(1, 1).NormalizeOrZero()
	if l := diag.Len(); math.Abs(float64(l)-1) > 1e-6 {
		t.Errorf("diagonal should be unit length, got %f", l)
	}
	if math.IsNaN(float64(diag.X)) || math.IsNaN(float64(diag.Y)) {
		t.Error("NormalizeOrZero must never produce NaN")
	}
}

func TestRectFromCenter(t *testing.T) {
	r := RectFromCenter(V(10, 20), V(100, 500))

	if r.Min != V(-40, -230) || r.Max != V(60, 270) {
		t.Errorf("RectFromCenter() = %+v, expected min (-40,-230) max (60,270)", r)
	}
	if r.Width() != 100 || r.Height() != 500 {
		t.Errorf("size = %fx%f, expected 100x500", r.Width(), r.Height())
	}
	if r.Center() != V(10, 20) {
		t.Errorf("Center() = %v, expected (10, 20)", r.Center())
	}
}

func TestRectContains(t *testing.T) {
	r := RectFromCenter(V(0, 0), V(20, 10))

	tests := []struct {
		name     string
		p        Vec2
		expected bool
	}{
		{"center", V(0, 0), true},
		{"right edge (inclusive)", V(10, 0), true},
		{"bottom-left corner (inclusive)", V(-10, -5), true},
		{"one unit right", V(11, 0), false},
		{"one unit above", V(0, 6), false},
		{"one unit left", V(-11, 0), false},
		{"one unit below", V(0, -6), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        RectFromCenter(V(0, 0), V(10, 10)),
			b:        RectFromCenter(V(5, 5), V(10, 10)),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        RectFromCenter(V(0, 0), V(10, 10)),
			b:        RectFromCenter(V(15, 0), V(10, 10)),
			expected: false,
		},
		{
			name:     "adjacent (no overlap)",
			a:        RectFromCenter(V(0, 0), V(10, 10)),
			b:        RectFromCenter(V(10, 0), V(10, 10)),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        RectFromCenter(V(0, 0), V(20, 20)),
			b:        RectFromCenter(V(1, 1), V(2, 2)),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestClampMinMax(t *testing.T) {
	if Clamp(-5, 0, 10) != 0 || Clamp(15, 0, 10) != 10 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp should restrict values to [min, max]")
	}
	if Min(5, 10) != 5 || Max(5, 10) != 10 {
		t.Error("Min/Max returned the wrong operand")
	}
}
