package model

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Error kinds shared by the engine, the config loader and the exporters.
var (
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrUnknownKey    = errors.New("unknown piece type/color key")
	ErrEmptyColorSet = errors.New("empty color set")
	ErrOverlap       = errors.New("anchor already occupied")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// whiteThreshold is the minimum value every channel must reach for a
// sampled design cell to count as white.
const whiteThreshold = 250

// IsWhite reports whether every channel is at or above the white threshold.
func (c RGB) IsWhite() bool {
	return c.R >= whiteThreshold && c.G >= whiteThreshold && c.B >= whiteThreshold
}

// DistanceSq returns the squared Euclidean distance between two colors in RGB space.
func (c RGB) DistanceSq(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Footprint is the rows x cols extent of a piece. Cols extend along the
// x-axis and Rows along the y-axis from the anchor.
type Footprint struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Area returns the number of anchors covered by the footprint.
func (f Footprint) Area() int {
	return f.Rows * f.Cols
}

// Size returns the footprint as an x/y extent.
func (f Footprint) Size() image.Point {
	return image.Point{X: f.Cols, Y: f.Rows}
}

// PieceType names a brick shape, e.g. "2x4".
type PieceType string

// The supported piece types.
const (
	Piece2x4 PieceType = "2x4"
	Piece2x3 PieceType = "2x3"
	Piece2x2 PieceType = "2x2"
	Piece1x4 PieceType = "1x4"
	Piece1x3 PieceType = "1x3"
	Piece1x2 PieceType = "1x2"
	Piece1x1 PieceType = "1x1"
)

// PiecePriority is the order in which footprints are tried during a fill
// pass, largest area first.
var PiecePriority = []PieceType{Piece2x4, Piece2x3, Piece2x2, Piece1x4, Piece1x3, Piece1x2, Piece1x1}

// IsSupported reports whether the piece type is one of PiecePriority.
func (pt PieceType) IsSupported() bool {
	for _, p := range PiecePriority {
		if p == pt {
			return true
		}
	}
	return false
}

// Footprint parses the "<rows>x<cols>" name. It panics on a malformed
// name; use ParsePieceType for untrusted input.
func (pt PieceType) Footprint() Footprint {
	fp, err := ParsePieceType(string(pt))
	if err != nil {
		panic(err)
	}
	return fp
}

// ParsePieceType parses a "<rows>x<cols>" piece name. The separator may be
// an ASCII x or the multiplication sign.
func ParsePieceType(name string) (Footprint, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "×", "x")
	rows, cols, ok := strings.Cut(s, "x")
	if !ok {
		return Footprint{}, fmt.Errorf("%w: piece type %q is not of the form RxC", ErrInvalidConfig, name)
	}
	r, err := strconv.Atoi(rows)
	if err != nil || r <= 0 {
		return Footprint{}, fmt.Errorf("%w: piece type %q has invalid rows", ErrInvalidConfig, name)
	}
	c, err := strconv.Atoi(cols)
	if err != nil || c <= 0 {
		return Footprint{}, fmt.Errorf("%w: piece type %q has invalid cols", ErrInvalidConfig, name)
	}
	return Footprint{Rows: r, Cols: c}, nil
}

// NormalizePieceType turns user spellings such as "2X4" or "2×4" into the
// canonical PieceType.
func NormalizePieceType(name string) (PieceType, error) {
	fp, err := ParsePieceType(name)
	if err != nil {
		return "", err
	}
	return PieceType(fmt.Sprintf("%dx%d", fp.Rows, fp.Cols)), nil
}

// Design is a sampled block-color matrix placed on the canvas at Origin.
// Cells is indexed [x][y]; every column must have the same length.
type Design struct {
	Name      string      `json:"name"`
	Origin    image.Point `json:"origin"`
	Cells     [][]RGB     `json:"cells"`
	KeepWhite bool        `json:"keep_white"`
}

// Size returns the design extent in blocks.
func (d Design) Size() image.Point {
	if len(d.Cells) == 0 {
		return image.Point{}
	}
	return image.Point{X: len(d.Cells), Y: len(d.Cells[0])}
}

// Bounds returns the grid rectangle the design covers.
func (d Design) Bounds() image.Rectangle {
	return image.Rectangle{Min: d.Origin, Max: d.Origin.Add(d.Size())}
}

// Validate checks the matrix is non-empty and rectangular.
func (d Design) Validate() error {
	if len(d.Cells) == 0 || len(d.Cells[0]) == 0 {
		return fmt.Errorf("%w: design %q is empty", ErrInvalidConfig, d.Name)
	}
	h := len(d.Cells[0])
	for x, col := range d.Cells {
		if len(col) != h {
			return fmt.Errorf("%w: design %q column %d has %d cells, want %d", ErrInvalidConfig, d.Name, x, len(col), h)
		}
	}
	return nil
}

// RenderInstruction describes one committed piece for a renderer.
type RenderInstruction struct {
	Pos       image.Point `json:"pos"`
	Footprint Footprint   `json:"footprint"`
	PieceType PieceType   `json:"piece_type"`
	ColorName string      `json:"color_name"`
	Color     RGB         `json:"color"`
}

// Rect returns the grid rectangle covered by the piece.
func (ri RenderInstruction) Rect() image.Rectangle {
	return image.Rectangle{Min: ri.Pos, Max: ri.Pos.Add(ri.Footprint.Size())}
}
