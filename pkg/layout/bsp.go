package layout

import (
	"github.com/gridflux/gridflux/internal/geometry"
	"github.com/gridflux/gridflux/internal/model"
)

// BSP recursively splits the workspace bounds in half, alternating split
// axis by recursion depth, until each leaf holds exactly one window. It
// is the default strategy.
type BSP struct{}

// ApplyLayout implements Strategy.
func (BSP) ApplyLayout(count int, bounds model.Rect, params Params, out []model.Rect) {
	if count == 0 {
		return
	}
	assignBSP(out[:count], bounds, 0)
	for i := 0; i < count; i++ {
		out[i] = geometry.ApplyPadding(out[i], params.Padding, params.MinWindowSize)
	}
}

// assignBSP writes exactly len(out) rectangles, one per slot, splitting
// bounds recursively. depth 0 (even) splits vertically — left gets
// floor(w/2), right the remainder; odd depths split horizontally — top
// gets floor(h/2), bottom the remainder. The first half of out receives
// the first half of the recursive split so that window i always receives
// out[i].
func assignBSP(out []model.Rect, bounds model.Rect, depth int) {
	n := len(out)
	if n == 0 {
		return
	}
	if n == 1 {
		out[0] = bounds
		return
	}

	left := n / 2
	right := n - left

	var leftRect, rightRect model.Rect
	if depth%2 == 0 {
		lw := bounds.W / 2
		leftRect = model.Rect{X: bounds.X, Y: bounds.Y, W: lw, H: bounds.H}
		rightRect = model.Rect{X: bounds.X + int32(lw), Y: bounds.Y, W: bounds.W - lw, H: bounds.H}
	} else {
		lh := bounds.H / 2
		leftRect = model.Rect{X: bounds.X, Y: bounds.Y, W: bounds.W, H: lh}
		rightRect = model.Rect{X: bounds.X, Y: bounds.Y + int32(lh), W: bounds.W, H: bounds.H - lh}
	}

	assignBSP(out[:left], leftRect, depth+1)
	assignBSP(out[left:], rightRect, depth+1)
}
