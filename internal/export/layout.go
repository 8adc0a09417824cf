package export

import (
	"image"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Layout records every committed piece in commit order. It satisfies the
// engine's Renderer interface and feeds the vector exports.
type Layout struct {
	width, height int
	pieces        []model.RenderInstruction
}

// NewLayout creates an empty layout for a width x height canvas in blocks.
func NewLayout(width, height int) *Layout {
	return &Layout{width: width, height: height}
}

// Render records ri.
func (l *Layout) Render(ri model.RenderInstruction) {
	l.pieces = append(l.pieces, ri)
}

// Bounds returns the canvas rectangle in blocks.
func (l *Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.width, l.height)
}

// Pieces returns the recorded pieces in commit order.
func (l *Layout) Pieces() []model.RenderInstruction {
	return l.pieces
}

// Len returns the number of recorded pieces.
func (l *Layout) Len() int {
	return len(l.pieces)
}

// Holes returns the anchors no recorded piece covers, x outer, y inner.
func (l *Layout) Holes() []image.Point {
	covered := make([]bool, l.width*l.height)
	for _, p := range l.pieces {
		r := p.Rect().Intersect(l.Bounds())
		for x := r.Min.X; x < r.Max.X; x++ {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				covered[y*l.width+x] = true
			}
		}
	}
	var holes []image.Point
	for x := 0; x < l.width; x++ {
		for y := 0; y < l.height; y++ {
			if !covered[y*l.width+x] {
				holes = append(holes, image.Pt(x, y))
			}
		}
	}
	return holes
}
