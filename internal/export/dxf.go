package export

import (
	"fmt"
	"image"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// StudPitch is the width of one block in millimetres.
const StudPitch = 8.0

const (
	layerBaseplate = "BASEPLATE"
	layerHoles     = "HOLES"
)

// layerColors assigns an ACI color per piece type layer.
var layerColors = map[model.PieceType]color.ColorNumber{
	model.Piece2x4: color.Red,
	model.Piece2x3: color.Yellow,
	model.Piece2x2: color.Green,
	model.Piece1x4: color.Cyan,
	model.Piece1x3: color.Blue,
	model.Piece1x2: color.Magenta,
	model.Piece1x1: color.White,
}

// pieceLayer names the DXF layer holding pieces of type pt.
func pieceLayer(pt model.PieceType) string {
	return "PIECE_" + string(pt)
}

// ExportDXF writes the layout as a 1:1 baseplate template in millimetres.
// Every piece outline goes on the layer of its type; uncovered anchors are
// crossed out on the HOLES layer. DXF y runs upward so rows are flipped.
func ExportDXF(path string, l *Layout) error {
	if l == nil {
		return fmt.Errorf("no layout to export")
	}
	b := l.Bounds()
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(layerBaseplate, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", layerBaseplate, err)
	}
	if err := drawRect(d, b, b.Dy()); err != nil {
		return err
	}

	for _, pt := range model.PiecePriority {
		if _, err := d.AddLayer(pieceLayer(pt), layerColors[pt], dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", pieceLayer(pt), err)
		}
	}
	for _, p := range l.Pieces() {
		if err := d.ChangeLayer(pieceLayer(p.PieceType)); err != nil {
			return fmt.Errorf("failed to select layer for %s: %w", p.PieceType, err)
		}
		if err := drawRect(d, p.Rect(), b.Dy()); err != nil {
			return err
		}
	}

	holes := l.Holes()
	if len(holes) > 0 {
		if _, err := d.AddLayer(layerHoles, color.Red, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layerHoles, err)
		}
		for _, h := range holes {
			x0, y0 := float64(h.X)*StudPitch, float64(b.Dy()-h.Y)*StudPitch
			x1, y1 := x0+StudPitch, y0-StudPitch
			if _, err := d.Line(x0, y0, 0, x1, y1, 0); err != nil {
				return fmt.Errorf("failed to draw hole: %w", err)
			}
			if _, err := d.Line(x1, y0, 0, x0, y1, 0); err != nil {
				return fmt.Errorf("failed to draw hole: %w", err)
			}
		}
	}

	return d.SaveAs(path)
}

// drawRect outlines r with four lines on the current layer.
func drawRect(d *drawing.Drawing, r image.Rectangle, height int) error {
	x0 := float64(r.Min.X) * StudPitch
	x1 := float64(r.Max.X) * StudPitch
	y0 := float64(height-r.Min.Y) * StudPitch
	y1 := float64(height-r.Max.Y) * StudPitch
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for i, c := range corners {
		n := corners[(i+1)%len(corners)]
		if _, err := d.Line(c[0], c[1], 0, n[0], n[1], 0); err != nil {
			return fmt.Errorf("failed to draw outline: %w", err)
		}
	}
	return nil
}
