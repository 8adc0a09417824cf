package engine

import (
	"fmt"
	"image"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// ImportReport describes the outcome of placing one design.
type ImportReport struct {
	Design  string     `json:"design"`
	Placed  int        `json:"placed"`  // 1x1 design pieces
	Skipped int        `json:"skipped"` // white cells left for generic fill
	Fill    FillReport `json:"fill"`    // generic fill over the design rectangle
}

// resolvedCell is a design cell matched to a catalog color, not yet committed.
type resolvedCell struct {
	pos  image.Point
	name string
	rgb  model.RGB
}

// DesignImporter overlays sampled pixel-art onto the grid as 1x1 pieces and
// covers the cells it skipped with generic pieces.
type DesignImporter struct {
	grid     *Grid
	inv      *model.Inventory
	matcher  *Matcher
	placer   *Placer
	renderer Renderer
}

// NewDesignImporter wires an importer to the session's grid, inventory,
// matcher and placer.
func NewDesignImporter(grid *Grid, inv *model.Inventory, matcher *Matcher, placer *Placer, renderer Renderer) *DesignImporter {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	return &DesignImporter{
		grid:     grid,
		inv:      inv,
		matcher:  matcher,
		placer:   placer,
		renderer: renderer,
	}
}

// Import places design at its origin. Every cell is a 1x1 piece in its
// nearest allowed color; with KeepWhite unset, white cells are skipped and
// later covered by the fill pass over the design rectangle.
//
// All checks run before the first commit: a design that does not fit, that
// overlaps an occupied anchor or that cannot be color matched leaves the
// grid and inventory untouched.
func (di *DesignImporter) Import(design model.Design) (ImportReport, error) {
	report := ImportReport{Design: design.Name}

	if err := design.Validate(); err != nil {
		return report, err
	}
	bounds := design.Bounds()
	if design.Origin.X < 0 || design.Origin.Y < 0 || !bounds.In(di.grid.Bounds()) {
		return report, fmt.Errorf("%w: design %q at %v size %v exceeds %dx%d grid",
			model.ErrOutOfBounds, design.Name, design.Origin, design.Size(), di.grid.Width(), di.grid.Height())
	}

	unit := model.Piece1x1.Footprint()
	var cells []resolvedCell
	for x, col := range design.Cells {
		for y, rgb := range col {
			if !design.KeepWhite && rgb.IsWhite() {
				report.Skipped++
				continue
			}
			pos := design.Origin.Add(image.Pt(x, y))
			if !di.grid.IsFree(pos, unit) {
				return report, fmt.Errorf("%w: design %q cell %v", model.ErrOverlap, design.Name, pos)
			}
			name, matched, err := di.matcher.Closest(model.Piece1x1, rgb)
			if err != nil {
				return report, fmt.Errorf("design %q: %w", design.Name, err)
			}
			cells = append(cells, resolvedCell{pos: pos, name: name, rgb: matched})
		}
	}

	for _, c := range cells {
		if err := di.inv.Increment(model.Piece1x1, c.name); err != nil {
			return report, fmt.Errorf("design %q: %w", design.Name, err)
		}
		di.grid.Occupy(c.pos, unit)
		di.renderer.Render(model.RenderInstruction{
			Pos:       c.pos,
			Footprint: unit,
			PieceType: model.Piece1x1,
			ColorName: c.name,
			Color:     c.rgb,
		})
		report.Placed++
	}

	fill, err := di.placer.Fill(bounds)
	report.Fill = fill
	if err != nil {
		return report, fmt.Errorf("design %q: %w", design.Name, err)
	}
	return report, nil
}
