package engine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

func TestNewGrid_RejectsEmpty(t *testing.T) {
	_, err := NewGrid(0, 3)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	_, err = NewGrid(3, -1)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestGrid_IsFreeBounds(t *testing.T) {
	g, err := NewGrid(4, 3)
	require.NoError(t, err)

	fp24 := model.Piece2x4.Footprint() // 4 along x, 2 along y
	assert.True(t, g.IsFree(image.Pt(0, 0), fp24))
	assert.True(t, g.IsFree(image.Pt(0, 1), fp24))
	assert.False(t, g.IsFree(image.Pt(0, 2), fp24), "rows overflow the bottom edge")
	assert.False(t, g.IsFree(image.Pt(1, 0), fp24), "cols overflow the right edge")
	assert.False(t, g.IsFree(image.Pt(-1, 0), model.Piece1x1.Footprint()))
	assert.False(t, g.IsFree(image.Pt(0, 0), model.Footprint{}))
}

func TestGrid_OccupyMarksFootprint(t *testing.T) {
	g, err := NewGrid(4, 4)
	require.NoError(t, err)

	g.Occupy(image.Pt(1, 1), model.Piece2x3.Footprint()) // x 1..3, y 1..2

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			want := x >= 1 && x <= 3 && y >= 1 && y <= 2
			assert.Equal(t, want, g.Occupied(image.Pt(x, y)), "anchor (%d,%d)", x, y)
		}
	}
	assert.Equal(t, 16-6, g.FreeCount())
	assert.False(t, g.IsFree(image.Pt(0, 0), model.Piece2x2.Footprint()), "overlaps the placed piece")
	assert.True(t, g.IsFree(image.Pt(0, 3), model.Piece1x4.Footprint()))
}

func TestGrid_OccupyPanicsOnTakenArea(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)
	g.Occupy(image.Pt(0, 0), model.Piece1x1.Footprint())

	assert.Panics(t, func() { g.Occupy(image.Pt(0, 0), model.Piece2x2.Footprint()) })
	assert.Panics(t, func() { g.Occupy(image.Pt(1, 1), model.Piece2x2.Footprint()) })
}

func TestGrid_FreeInScanOrder(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)
	g.Occupy(image.Pt(1, 0), model.Piece1x1.Footprint())

	free := g.FreeIn(image.Rect(0, 0, 10, 10))
	assert.Equal(t, []image.Point{
		{0, 0}, {0, 1}, {1, 1}, {2, 0}, {2, 1},
	}, free)
}

func TestGrid_OutOfBoundsCountsAsOccupied(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)
	assert.True(t, g.Occupied(image.Pt(2, 0)))
	assert.True(t, g.Occupied(image.Pt(0, -1)))
}
