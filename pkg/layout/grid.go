package layout

import (
	"github.com/gridflux/gridflux/internal/geometry"
	"github.com/gridflux/gridflux/internal/model"
)

// Grid tiles windows into a fixed-column grid, filling row-major.
type Grid struct{}

// ApplyLayout implements Strategy. columns=0 is treated as 2 (a boundary
// case called out explicitly in the testable properties); any other
// configured value is used as-is.
func (Grid) ApplyLayout(count int, bounds model.Rect, params Params, out []model.Rect) {
	if count == 0 {
		return
	}

	columns := params.Columns
	if columns == 0 {
		columns = 2
	}
	rows := (uint32(count) + columns - 1) / columns

	cellW := bounds.W / columns
	cellH := bounds.H / rows

	for i := 0; i < count; i++ {
		col := uint32(i) % columns
		row := uint32(i) / columns
		r := model.Rect{
			X: bounds.X + int32(col*cellW),
			Y: bounds.Y + int32(row*cellH),
			W: cellW,
			H: cellH,
		}
		out[i] = geometry.ApplyPadding(r, params.Padding, params.MinWindowSize)
	}
}
