package engine

import (
	"math/rand"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

func TestSummarize_EmptySession(t *testing.T) {
	g, inv, _ := newTestPlacer(t, 3, 2, map1x1("White", 0.1, "Black", 0.2), nil)
	r := NewReporter(g, inv)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	s := r.Summarize()
	assert.Len(t, s.ID, 8)
	assert.Equal(t, "2026-03-01T12:00:00Z", s.CreatedAt)
	assert.Equal(t, 3, s.Width)
	assert.Equal(t, 2, s.Height)
	assert.Equal(t, 0, s.TotalPieces)
	assert.Equal(t, 6, s.Unfilled)
	assert.Zero(t, s.TotalPrice)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, "White", s.Lines[0].Color)
	assert.Equal(t, "#f4f4f4", s.Lines[0].Hex)
	assert.Equal(t, "Black", s.Lines[1].Color)
	assert.False(t, s.HasPricing())
}

func TestSummarize_PricesEveryLine(t *testing.T) {
	g, inv, p := newTestPlacer(t, 4, 4, map1x1("White", 1.0), nil)
	_, err := p.Fill(g.Bounds())
	require.NoError(t, err)

	s := NewReporter(g, inv).Summarize()
	assert.Equal(t, 16, s.TotalPieces)
	assert.Equal(t, 16, s.Count(model.Piece1x1, "White"))
	assert.Equal(t, 16, s.CoveredAnchors)
	assert.Equal(t, 0, s.Unfilled)
	assert.InDelta(t, 16.0, s.TotalPrice, 1e-9)
	require.Len(t, s.Lines, 1)
	assert.InDelta(t, 16.0, s.Lines[0].Subtotal, 1e-9)
}

func TestSummarize_DoesNotMutate(t *testing.T) {
	g, inv, p := newTestPlacer(t, 2, 2, map1x1("White", 1.0), nil)
	_, err := p.Fill(g.Bounds())
	require.NoError(t, err)

	r := NewReporter(g, inv)
	first := r.Summarize()
	first.Counts[model.Piece1x1]["White"] = 99

	second := r.Summarize()
	assert.Equal(t, 4, second.Count(model.Piece1x1, "White"))
	assert.Equal(t, 4, inv.Count(model.Piece1x1, "White"))
}

// TotalPrice always equals the sum of count x unit price over every line,
// and covered anchors plus holes span the grid.
func TestSummarize_PriceConsistency(t *testing.T) {
	property := func(w, h, mask uint8, seed int64) bool {
		width, height := 1+int(w%16), 1+int(h%16)
		g, err := NewGrid(width, height)
		if err != nil {
			return false
		}
		inv, err := model.NewInventory(model.DefaultCatalog(), pieceSpecs(mask, false))
		if err != nil {
			return false
		}
		if _, err := NewPlacer(g, inv, rand.New(rand.NewSource(seed)), nil).Fill(g.Bounds()); err != nil {
			return false
		}

		s := NewReporter(g, inv).Summarize()
		var want float64
		for _, l := range inv.Lines() {
			want += float64(l.Count) * l.UnitPrice
		}
		diff := s.TotalPrice - want
		return diff < 1e-9 && diff > -1e-9 &&
			s.CoveredAnchors+s.Unfilled == width*height
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
