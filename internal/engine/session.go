// Package engine places brick pieces on the mosaic canvas: occupancy grid,
// greedy multi-footprint fill, nearest color matching, design import and
// the priced summary.
package engine

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Session owns one canvas: its grid, inventory and the components working
// on them. A session is never reset; start over with a new one.
type Session struct {
	grid     *Grid
	inv      *model.Inventory
	placer   *Placer
	importer *DesignImporter
	reporter *Reporter
}

// Options configure a session.
type Options struct {
	Rand     RandSource // nil = seeded from Seed
	Seed     int64      // 0 = seeded from the clock
	Renderer Renderer   // nil = discard render instructions
}

// NewSession builds the grid and inventory described by cfg.
func NewSession(cfg model.Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	inv, err := model.NewInventory(catalog, cfg.Canvas.ValidPieces)
	if err != nil {
		return nil, err
	}
	grid, err := NewGrid(cfg.Canvas.BlocksPerRow, cfg.Canvas.BlocksPerCol)
	if err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	return newSession(grid, inv, rng, opts.Renderer), nil
}

// NewSessionFrom wires a session around an existing grid and inventory.
func NewSessionFrom(grid *Grid, inv *model.Inventory, rng RandSource, renderer Renderer) (*Session, error) {
	if grid == nil || inv == nil || rng == nil {
		return nil, fmt.Errorf("%w: session needs a grid, an inventory and a random source", model.ErrInvalidConfig)
	}
	return newSession(grid, inv, rng, renderer), nil
}

func newSession(grid *Grid, inv *model.Inventory, rng RandSource, renderer Renderer) *Session {
	matcher := NewMatcher(inv)
	placer := NewPlacer(grid, inv, rng, renderer)
	return &Session{
		grid:     grid,
		inv:      inv,
		placer:   placer,
		importer: NewDesignImporter(grid, inv, matcher, placer, renderer),
		reporter: NewReporter(grid, inv),
	}
}

// Grid returns the session's occupancy grid.
func (s *Session) Grid() *Grid { return s.grid }

// Inventory returns the session's piece inventory.
func (s *Session) Inventory() *model.Inventory { return s.inv }

// Holes lists every free anchor of the canvas, x outer and y inner.
func (s *Session) Holes() []image.Point {
	return s.grid.FreeIn(s.grid.Bounds())
}

// HasFallback reports whether a 1x1 piece is configured, which guarantees
// every fill pass covers its whole region.
func (s *Session) HasFallback() bool {
	return s.inv.Has(model.Piece1x1)
}

// AddPiece places one generic piece at pos.
func (s *Session) AddPiece(pos image.Point) (bool, error) {
	return s.placer.AddPiece(pos)
}

// Fill runs a fill pass over region.
func (s *Session) Fill(region image.Rectangle) (FillReport, error) {
	return s.placer.Fill(region)
}

// FillAll runs a fill pass over the whole canvas.
func (s *Session) FillAll() (FillReport, error) {
	return s.placer.Fill(s.grid.Bounds())
}

// ImportDesign overlays a sampled design and fills its rectangle.
func (s *Session) ImportDesign(design model.Design) (ImportReport, error) {
	return s.importer.Import(design)
}

// Summarize returns the priced summary of everything placed so far.
func (s *Session) Summarize() model.Summary {
	return s.reporter.Summarize()
}
