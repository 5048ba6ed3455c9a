package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/pkg/layout"
)

func TestBSPZeroCountWritesNothing(t *testing.T) {
	out := make([]model.Rect, 4)
	layout.BSP{}.ApplyLayout(0, model.Rect{W: 100, H: 100}, layout.Params{}, out)
	assert.Equal(t, model.Rect{}, out[0])
}

func TestBSPThreeWindowsMatchesReferenceScenario(t *testing.T) {
	bounds := model.Rect{X: 0, Y: 0, W: 1000, H: 800}
	out := make([]model.Rect, 3)
	layout.BSP{}.ApplyLayout(3, bounds, layout.Params{}, out)

	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 500, H: 800}, out[0])
	assert.Equal(t, model.Rect{X: 500, Y: 0, W: 500, H: 400}, out[1])
	assert.Equal(t, model.Rect{X: 500, Y: 400, W: 500, H: 400}, out[2])
}

func TestBSPSingleWindowFillsBoundsAfterPadding(t *testing.T) {
	bounds := model.Rect{X: 0, Y: 0, W: 200, H: 200}
	out := make([]model.Rect, 1)
	layout.BSP{}.ApplyLayout(1, bounds, layout.Params{Padding: 10, MinWindowSize: 10}, out)
	assert.Equal(t, model.Rect{X: 10, Y: 10, W: 180, H: 180}, out[0])
}

func TestGridColumnsZeroTreatedAsTwo(t *testing.T) {
	bounds := model.Rect{X: 0, Y: 0, W: 400, H: 200}
	out := make([]model.Rect, 4)
	layout.Grid{}.ApplyLayout(4, bounds, layout.Params{Columns: 0}, out)

	// 2 columns, 2 rows, cell 200x100
	assert.EqualValues(t, 200, out[0].W)
	assert.EqualValues(t, 100, out[0].H)
	assert.EqualValues(t, 200, out[1].X)
	assert.EqualValues(t, 100, out[2].Y)
}

func TestGridOrderPreserving(t *testing.T) {
	bounds := model.Rect{X: 0, Y: 0, W: 300, H: 100}
	out := make([]model.Rect, 3)
	layout.Grid{}.ApplyLayout(3, bounds, layout.Params{Columns: 3}, out)
	assert.EqualValues(t, 0, out[0].X)
	assert.EqualValues(t, 100, out[1].X)
	assert.EqualValues(t, 200, out[2].X)
}
