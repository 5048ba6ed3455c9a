package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridflux/gridflux/internal/geometry"
	"github.com/gridflux/gridflux/internal/model"
)

func TestApplyPadding(t *testing.T) {
	r := model.Rect{X: 0, Y: 0, W: 100, H: 100}
	out := geometry.ApplyPadding(r, 10, 10)
	assert.Equal(t, model.Rect{X: 10, Y: 10, W: 80, H: 80}, out)
}

func TestApplyPaddingClampsToMinWhenPaddingConsumesRect(t *testing.T) {
	r := model.Rect{X: 0, Y: 0, W: 10, H: 10}
	out := geometry.ApplyPadding(r, 10, 5)
	assert.Equal(t, uint32(5), out.W)
	assert.Equal(t, uint32(5), out.H)
}

func TestEnsureMinGrowsOnly(t *testing.T) {
	r := model.Rect{X: 1, Y: 2, W: 3, H: 20}
	out := geometry.EnsureMin(r, 10)
	assert.Equal(t, uint32(10), out.W)
	assert.Equal(t, uint32(20), out.H)
	assert.Equal(t, int32(1), out.X)
}

func TestIntersectDisjoint(t *testing.T) {
	a := model.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := model.Rect{X: 20, Y: 20, W: 10, H: 10}
	_, ok := geometry.Intersect(a, b)
	assert.False(t, ok)
	assert.EqualValues(t, 0, geometry.IntersectionArea(a, b))
}

func TestIntersectOverlapping(t *testing.T) {
	a := model.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := model.Rect{X: 5, Y: 5, W: 10, H: 10}
	r, ok := geometry.Intersect(a, b)
	assert.True(t, ok)
	assert.Equal(t, model.Rect{X: 5, Y: 5, W: 5, H: 5}, r)
	assert.EqualValues(t, 25, geometry.IntersectionArea(a, b))
}
