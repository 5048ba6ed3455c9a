// Package layout is the pure tiling engine: a deterministic function from
// a window count and a workspace bounds rectangle to a rectangle per
// window. It lives under pkg/ rather than internal/, but it is not
// self-contained: it imports internal/model (its API takes model.Rect)
// and internal/geometry.
//
// Both strategies are infallible by construction: the input is a count
// of known size and the output is a caller-provided slice, so there is
// nothing for the engine to fail on.
package layout

import "github.com/gridflux/gridflux/internal/model"

// Params carries the configuration fields the layout engine reads every
// call: default padding and minimum window size. The engine holds no
// other state and performs no allocation beyond strategy scratch space.
type Params struct {
	Padding       int32
	MinWindowSize uint32
	Columns       uint32 // grid strategy only; 0 is treated as 2 (§8 boundary)
}

// Strategy computes per-window rectangles for count windows inside
// bounds, writing exactly count rectangles into out. out must have
// capacity >= count; ApplyLayout panics otherwise, matching the source's
// contract that the caller supplies a correctly sized buffer.
type Strategy interface {
	ApplyLayout(count int, bounds model.Rect, params Params, out []model.Rect)
}

// Name values for strategy selection by CLI/config.
const (
	NameBSP  = "bsp"
	NameGrid = "grid"
)

// ByName returns the strategy registered under name, defaulting to BSP
// (the spec's default strategy) for an unrecognized name.
func ByName(name string) Strategy {
	switch name {
	case NameGrid:
		return Grid{}
	default:
		return BSP{}
	}
}
