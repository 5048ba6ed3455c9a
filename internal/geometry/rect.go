// Package geometry implements the rectangle algebra the layout engine and
// the control loop use to pad, clamp, and intersect window geometries.
// Every function here is pure and allocation-free.
package geometry

import "github.com/gridflux/gridflux/internal/model"

// ApplyPadding shrinks r by p on each side. If that would leave w<=0 or
// h<=0, the corresponding dimension is clamped to minSize instead of going
// non-positive.
func ApplyPadding(r model.Rect, p int32, minSize uint32) model.Rect {
	out := model.Rect{
		X: r.X + p,
		Y: r.Y + p,
	}

	shrinkW := int64(r.W) - int64(2*p)
	if shrinkW <= 0 {
		out.W = minSize
	} else {
		out.W = uint32(shrinkW)
	}

	shrinkH := int64(r.H) - int64(2*p)
	if shrinkH <= 0 {
		out.H = minSize
	} else {
		out.H = uint32(shrinkH)
	}

	return EnsureMin(out, minSize)
}

// EnsureMin grows w/h to at least m, leaving x/y untouched.
func EnsureMin(r model.Rect, m uint32) model.Rect {
	if r.W < m {
		r.W = m
	}
	if r.H < m {
		r.H = m
	}
	return r
}

// Intersect returns the overlapping rectangle of a and b, or false if they
// do not overlap.
func Intersect(a, b model.Rect) (model.Rect, bool) {
	x1 := max32(a.X, b.X)
	y1 := max32(a.Y, b.Y)
	x2 := min32(a.X+int32(a.W), b.X+int32(b.W))
	y2 := min32(a.Y+int32(a.H), b.Y+int32(b.H))

	if x2 <= x1 || y2 <= y1 {
		return model.Rect{}, false
	}
	return model.Rect{X: x1, Y: y1, W: uint32(x2 - x1), H: uint32(y2 - y1)}, true
}

// IntersectionArea returns the overlap area of a and b, 0 if disjoint.
func IntersectionArea(a, b model.Rect) uint64 {
	r, ok := Intersect(a, b)
	if !ok {
		return 0
	}
	return uint64(r.W) * uint64(r.H)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
