package engine

import (
	"fmt"
	"image"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// RandSource is the random number source used to pick a color for
// generic fill pieces. *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Renderer receives one instruction per committed piece.
type Renderer interface {
	Render(ri model.RenderInstruction)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(ri model.RenderInstruction)

// Render calls f(ri).
func (f RendererFunc) Render(ri model.RenderInstruction) { f(ri) }

// MultiRenderer fans instructions out to several renderers in order.
type MultiRenderer []Renderer

// Render forwards ri to every renderer.
func (m MultiRenderer) Render(ri model.RenderInstruction) {
	for _, r := range m {
		r.Render(ri)
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(model.RenderInstruction) {}

// FillReport describes the outcome of one fill pass.
type FillReport struct {
	Region   image.Rectangle `json:"region"`
	Placed   int             `json:"placed"`   // pieces committed during the pass
	Unfilled []image.Point   `json:"unfilled"` // anchors no footprint could cover
}

// UnfilledCount returns how many anchors were left as holes.
func (r FillReport) UnfilledCount() int {
	return len(r.Unfilled)
}

// Complete reports whether the pass left no holes.
func (r FillReport) Complete() bool {
	return len(r.Unfilled) == 0
}

// Placer greedily fills free anchors with the largest configured footprint
// that fits.
type Placer struct {
	grid     *Grid
	inv      *model.Inventory
	rng      RandSource
	renderer Renderer

	// footprints lists the configured piece types in priority order.
	footprints []model.PieceType
}

// NewPlacer creates a placer. A nil renderer discards render instructions.
func NewPlacer(grid *Grid, inv *model.Inventory, rng RandSource, renderer Renderer) *Placer {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	var footprints []model.PieceType
	for _, pt := range model.PiecePriority {
		if inv.Has(pt) {
			footprints = append(footprints, pt)
		}
	}
	return &Placer{
		grid:       grid,
		inv:        inv,
		rng:        rng,
		renderer:   renderer,
		footprints: footprints,
	}
}

// AddPiece places the first footprint in priority order that fits at pos,
// with a color picked uniformly at random among the piece type's allowed
// colors. It returns false, leaving the anchor free, when nothing fits.
func (p *Placer) AddPiece(pos image.Point) (bool, error) {
	for _, pt := range p.footprints {
		fp := pt.Footprint()
		if !p.grid.IsFree(pos, fp) {
			continue
		}

		colors := p.inv.AllowedColors(pt)
		if len(colors) == 0 {
			return false, fmt.Errorf("%w: piece type %q", model.ErrEmptyColorSet, pt)
		}
		name := colors[p.rng.Intn(len(colors))]
		rgb, err := p.inv.ColorRGB(pt, name)
		if err != nil {
			return false, err
		}

		// The counter goes first so a failing key leaves the grid untouched.
		if err := p.inv.Increment(pt, name); err != nil {
			return false, err
		}
		p.grid.Occupy(pos, fp)
		p.renderer.Render(model.RenderInstruction{
			Pos:       pos,
			Footprint: fp,
			PieceType: pt,
			ColorName: name,
			Color:     rgb,
		})
		return true, nil
	}
	return false, nil
}

// Fill scans region (clipped to the grid) with x as the outer loop and y as
// the inner loop, calling AddPiece on every free anchor. Pieces may extend
// past region as long as they stay on the grid.
func (p *Placer) Fill(region image.Rectangle) (FillReport, error) {
	region = region.Intersect(p.grid.Bounds())
	report := FillReport{Region: region}

	for x := region.Min.X; x < region.Max.X; x++ {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			pos := image.Pt(x, y)
			if p.grid.Occupied(pos) {
				continue
			}
			ok, err := p.AddPiece(pos)
			if err != nil {
				return report, fmt.Errorf("fill at %v: %w", pos, err)
			}
			if ok {
				report.Placed++
			} else {
				report.Unfilled = append(report.Unfilled, pos)
			}
		}
	}
	return report, nil
}
