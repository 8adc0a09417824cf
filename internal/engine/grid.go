package engine

import (
	"fmt"
	"image"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Grid is the canvas occupancy map: one flag per anchor. Cells only ever
// go from free to occupied.
type Grid struct {
	width, height int
	occupied      []bool // row-major by y, then x
}

// NewGrid creates an empty width x height grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", model.ErrInvalidConfig, width, height)
	}
	return &Grid{
		width:    width,
		height:   height,
		occupied: make([]bool, width*height),
	}, nil
}

// Bounds returns the grid rectangle [0,W)x[0,H).
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// Width returns the number of anchors along x.
func (g *Grid) Width() int { return g.width }

// Height returns the number of anchors along y.
func (g *Grid) Height() int { return g.height }

func (g *Grid) at(x, y int) int {
	return y*g.width + x
}

// Occupied reports whether an anchor is taken. Out-of-bounds anchors count
// as occupied.
func (g *Grid) Occupied(pos image.Point) bool {
	if !pos.In(g.Bounds()) {
		return true
	}
	return g.occupied[g.at(pos.X, pos.Y)]
}

// footprintRect returns the rectangle a footprint covers from pos.
func footprintRect(pos image.Point, fp model.Footprint) image.Rectangle {
	return image.Rectangle{Min: pos, Max: pos.Add(fp.Size())}
}

// IsFree reports whether the footprint anchored at pos lies inside the grid
// and covers only free anchors.
func (g *Grid) IsFree(pos image.Point, fp model.Footprint) bool {
	if fp.Rows <= 0 || fp.Cols <= 0 {
		return false
	}
	r := footprintRect(pos, fp)
	if pos.X < 0 || pos.Y < 0 || !r.In(g.Bounds()) {
		return false
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if g.occupied[g.at(x, y)] {
				return false
			}
		}
	}
	return true
}

// Occupy marks every anchor under the footprint as taken. The caller must
// have checked IsFree for the same arguments; Occupy panics otherwise.
func (g *Grid) Occupy(pos image.Point, fp model.Footprint) {
	if !g.IsFree(pos, fp) {
		panic(fmt.Sprintf("engine: occupy %v at %v on a non-free area", fp, pos))
	}
	r := footprintRect(pos, fp)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.occupied[g.at(x, y)] = true
		}
	}
}

// FreeIn lists the free anchors of rect (clipped to the grid), x outer and
// y inner.
func (g *Grid) FreeIn(rect image.Rectangle) []image.Point {
	rect = rect.Intersect(g.Bounds())
	var free []image.Point
	for x := rect.Min.X; x < rect.Max.X; x++ {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			if !g.occupied[g.at(x, y)] {
				free = append(free, image.Pt(x, y))
			}
		}
	}
	return free
}

// FreeCount returns the number of free anchors in the whole grid.
func (g *Grid) FreeCount() int {
	n := 0
	for _, occ := range g.occupied {
		if !occ {
			n++
		}
	}
	return n
}
