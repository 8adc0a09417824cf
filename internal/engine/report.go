package engine

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Reporter aggregates inventory counters into a priced summary. It never
// mutates the grid or the inventory.
type Reporter struct {
	grid *Grid
	inv  *model.Inventory
	now  func() time.Time
}

// NewReporter creates a reporter over a session's grid and inventory.
func NewReporter(grid *Grid, inv *model.Inventory) *Reporter {
	return &Reporter{grid: grid, inv: inv, now: time.Now}
}

// Summarize snapshots the counters and prices them:
// TotalPrice = sum over every (piece type, color) of count x unit price.
func (r *Reporter) Summarize() model.Summary {
	lines := r.inv.Lines()

	counts := make([]float64, len(lines))
	prices := make([]float64, len(lines))
	s := model.Summary{
		ID:        uuid.New().String()[:8],
		CreatedAt: r.now().UTC().Format(time.RFC3339),
		Width:     r.grid.Width(),
		Height:    r.grid.Height(),
		Counts:    r.inv.Counts(),
		Lines:     make([]model.SummaryLine, 0, len(lines)),
		Unfilled:  r.grid.FreeCount(),
	}
	for i, l := range lines {
		counts[i] = float64(l.Count)
		prices[i] = l.UnitPrice
		s.Lines = append(s.Lines, model.SummaryLine{
			PieceType: l.PieceType,
			Color:     l.Color,
			Hex:       model.CatalogColor{Name: l.Color, RGB: l.RGB}.Hex(),
			Count:     l.Count,
			UnitPrice: l.UnitPrice,
			Subtotal:  counts[i] * prices[i],
		})
		s.TotalPieces += l.Count
		s.CoveredAnchors += l.Count * l.PieceType.Footprint().Area()
	}
	if len(lines) > 0 {
		s.TotalPrice = floats.Dot(counts, prices)
	}
	return s
}
