package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Canvas colors: a pale background with a red dot on every anchor.
var (
	canvasBackground = color.RGBA{R: 255, G: 255, B: 200, A: 255}
	anchorDot        = color.RGBA{R: 255, A: 255}
	pieceOutline     = color.RGBA{A: 255}
)

// Canvas paints committed pieces into a bitmap. Anchor (x, y) sits at
// pixel (cell/2 + x*cell, cell/2 + y*cell) and a piece covers the cells from
// its anchor to anchor + footprint. The bitmap has one spare cell along each
// axis so the last row and column are fully visible.
type Canvas struct {
	img  *image.RGBA
	cell int
}

// NewCanvas creates a canvas for a width x height block grid.
func NewCanvas(width, height, cellPx int) *Canvas {
	if cellPx <= 0 {
		cellPx = model.DefaultPieceSizePx
	}
	img := image.NewRGBA(image.Rect(0, 0, cellPx*(width+1), cellPx*(height+1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: canvasBackground}, image.Point{}, draw.Src)

	c := &Canvas{img: img, cell: cellPx}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			c.dot(c.anchor(image.Pt(x, y)))
		}
	}
	return c
}

// anchor returns the pixel position of a grid anchor.
func (c *Canvas) anchor(pos image.Point) image.Point {
	return image.Pt(c.cell/2+pos.X*c.cell, c.cell/2+pos.Y*c.cell)
}

func (c *Canvas) dot(p image.Point) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 || dy == 0 {
				c.img.Set(p.X+dx, p.Y+dy, anchorDot)
			}
		}
	}
}

// Render fills the piece rectangle in its color and outlines it in black.
func (c *Canvas) Render(ri model.RenderInstruction) {
	origin := c.anchor(ri.Pos)
	r := image.Rectangle{Min: origin, Max: origin.Add(ri.Footprint.Size().Mul(c.cell))}
	fill := color.RGBA{R: ri.Color.R, G: ri.Color.G, B: ri.Color.B, A: 255}
	draw.Draw(c.img, r, &image.Uniform{C: fill}, image.Point{}, draw.Src)

	for x := r.Min.X; x < r.Max.X; x++ {
		c.img.Set(x, r.Min.Y, pieceOutline)
		c.img.Set(x, r.Max.Y-1, pieceOutline)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c.img.Set(r.Min.X, y, pieceOutline)
		c.img.Set(r.Max.X-1, y, pieceOutline)
	}
}

// Image returns the bitmap.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Thumbnail returns the bitmap scaled to fit within maxPx on its longer side.
func (c *Canvas) Thumbnail(maxPx int) *image.RGBA {
	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxPx <= 0 || (w <= maxPx && h <= maxPx) {
		return c.img
	}
	if w >= h {
		w, h = maxPx, h*maxPx/w
	} else {
		w, h = w*maxPx/h, maxPx
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), c.img, b, draw.Src, nil)
	return dst
}

// SavePNG writes the bitmap as a PNG file, creating missing directories.
func (c *Canvas) SavePNG(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}
