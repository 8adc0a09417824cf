// Package export writes a finished mosaic to files: PNG bitmap, PDF report,
// QR-coded bag labels, XLSX inventory and a DXF baseplate template.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// Report bundles everything the PDF report shows.
type Report struct {
	Title    string
	Layout   *Layout
	Summary  model.Summary
	Palette  []model.CatalogColor    // optional palette preview page
	Purchase *model.PurchaseEstimate // optional order column
	Preview  image.Image             // optional bitmap on the inventory page
}

// ExportPDF generates the mosaic report: the layout drawing, the priced
// inventory table and, when a palette is given, a palette preview page.
func ExportPDF(path string, r Report) error {
	if r.Layout == nil {
		return fmt.Errorf("no layout to export")
	}
	if r.Title == "" {
		r.Title = "Brick Mosaic"
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderMosaicPage(pdf, r)

	pdf.AddPage()
	if err := renderInventoryPage(pdf, r); err != nil {
		return err
	}

	if len(r.Palette) > 0 {
		pdf.AddPage()
		renderPalettePage(pdf, r.Palette)
	}

	return pdf.OutputFileAndClose(path)
}

// isDark reports whether text on c should be white.
func isDark(c model.RGB) bool {
	return 0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B) < 128
}

// renderMosaicPage draws every placed piece to scale on the current page.
func renderMosaicPage(pdf *fpdf.Fpdf, r Report) {
	b := r.Layout.Bounds()
	s := r.Summary

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%d x %d blocks)", r.Title, b.Dx(), b.Dy())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Covered: %d / %d anchors | Unfilled: %d | Total price: %.2f",
		s.TotalPieces, s.CoveredAnchors, b.Dx()*b.Dy(), s.Unfilled, s.TotalPrice)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/float64(b.Dx()), drawHeight/float64(b.Dy()))

	canvasW := float64(b.Dx()) * scale
	canvasH := float64(b.Dy()) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Baseplate
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range r.Layout.Pieces() {
		rect := p.Rect()
		px := offsetX + float64(rect.Min.X)*scale
		py := offsetY + float64(rect.Min.Y)*scale
		pw := float64(rect.Dx()) * scale
		ph := float64(rect.Dy()) * scale

		pdf.SetFillColor(int(p.Color.R), int(p.Color.G), int(p.Color.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		if p.PieceType != model.Piece1x1 && pw > 6 && ph > 4 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			if isDark(p.Color) {
				pdf.SetTextColor(255, 255, 255)
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
			label := string(p.PieceType)
			if w := pdf.GetStringWidth(label); w < pw-1 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2-2)
				pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawHoles(pdf, r.Layout, scale, offsetX, offsetY)
	drawDimensionAnnotations(pdf, b.Dx(), b.Dy(), offsetX, offsetY, canvasW, canvasH)
	drawColorLegend(pdf, s, offsetY+canvasH+6)
}

// drawHoles crosses out every anchor left uncovered.
func drawHoles(pdf *fpdf.Fpdf, l *Layout, scale, offsetX, offsetY float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.2)
	for _, h := range l.Holes() {
		x := offsetX + float64(h.X)*scale
		y := offsetY + float64(h.Y)*scale
		pdf.Line(x, y, x+scale, y+scale)
		pdf.Line(x+scale, y, x, y+scale)
	}
}

// drawDimensionAnnotations adds width and height labels outside the baseplate.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, cols, rows int, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d blocks", cols)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d blocks", rows)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawColorLegend lists the colors in use with their piece counts.
func drawColorLegend(pdf *fpdf.Fpdf, s model.Summary, startY float64) {
	used := usedColors(s)
	if len(used) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Colors used:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, u := range used {
		label := fmt.Sprintf("%s (%d)", u.name, u.count)
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(int(u.rgb.R), int(u.rgb.G), int(u.rgb.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.1)
		pdf.Rect(xPos, startY+0.5, 3, 3, "FD")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

type colorCount struct {
	name  string
	rgb   model.RGB
	count int
}

// usedColors sums piece counts per color, in first-seen line order.
func usedColors(s model.Summary) []colorCount {
	var out []colorCount
	index := make(map[string]int)
	for _, l := range s.UsedLines() {
		i, ok := index[l.Color]
		if !ok {
			rgb, _ := model.ParseHexColor(l.Hex)
			i = len(out)
			index[l.Color] = i
			out = append(out, colorCount{name: l.Color, rgb: rgb})
		}
		out[i].count += l.Count
	}
	return out
}

// Preview placement on the inventory page.
const (
	previewMaxW = 70.0
	previewMaxH = 50.0
)

// rowBottom is the lowest y a table row or trailer line may start at.
const rowBottom = pageHeight - marginBottom - 12

// ensureSpace starts a new page when a line of height h would not fit above
// the footer and returns the y to draw at.
func ensureSpace(pdf *fpdf.Fpdf, y, h float64) float64 {
	if y+h > rowBottom+6 {
		pdf.AddPage()
		return marginTop
	}
	return y
}

// drawPreview places img in the top-right corner of the current page.
func drawPreview(pdf *fpdf.Fpdf, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	scale := math.Min(previewMaxW/float64(b.Dx()), previewMaxH/float64(b.Dy()))
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("mosaic_preview", opts, &buf)
	pdf.ImageOptions("mosaic_preview", pageWidth-marginRight-w, marginTop+14, w, h, false, opts, 0, "")
	return pdf.Error()
}

// renderInventoryPage draws the piece table. Price columns are left out
// when nothing placed has a price.
func renderInventoryPage(pdf *fpdf.Fpdf, r Report) error {
	s := r.Summary
	priced := s.HasPricing()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Piece Inventory", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	if r.Preview != nil {
		if err := drawPreview(pdf, r.Preview); err != nil {
			return err
		}
	}

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Summary ID", s.ID},
		{"Canvas", fmt.Sprintf("%d x %d blocks", s.Width, s.Height)},
		{"Total Pieces", fmt.Sprintf("%d", s.TotalPieces)},
	}
	if priced {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Total Price", fmt.Sprintf("%.2f", s.TotalPrice)})
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	if r.Preview != nil && y < marginTop+14+previewMaxH {
		y = marginTop + 14 + previewMaxH
	}
	y += 5

	toOrder := make(map[string]int)
	if r.Purchase != nil {
		for _, pl := range r.Purchase.Lines {
			toOrder[string(pl.PieceType)+"/"+pl.Color] = pl.ToOrder
		}
	}

	headers := []string{"Piece", "Color", "Hex", "Count"}
	colWidths := []float64{25, 60, 30, 30}
	if priced {
		headers = append(headers, "Unit Price", "Subtotal")
		colWidths = append(colWidths, 35, 35)
	}
	if r.Purchase != nil {
		headers = append(headers, "To Order")
		colWidths = append(colWidths, 35)
	}
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		pdf.SetTextColor(0, 0, 0)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 9)
	for i, l := range s.UsedLines() {
		if y > rowBottom {
			pdf.AddPage()
			y = marginTop
			drawHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		rowData := []string{
			string(l.PieceType),
			l.Color,
			l.Hex,
			fmt.Sprintf("%d", l.Count),
		}
		if priced {
			rowData = append(rowData, fmt.Sprintf("%.2f", l.UnitPrice), fmt.Sprintf("%.2f", l.Subtotal))
		}
		if r.Purchase != nil {
			rowData = append(rowData, fmt.Sprintf("%d", toOrder[string(l.PieceType)+"/"+l.Color]))
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}

		// Swatch inside the color cell
		if rgb, err := model.ParseHexColor(l.Hex); err == nil {
			pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.1)
			pdf.Rect(marginLeft+colWidths[0]+2, y+1.5, 3, 3, "FD")
		}
		y += 6
	}

	y = ensureSpace(pdf, y+2, 6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	total := fmt.Sprintf("Total: %d pieces", s.TotalPieces)
	if priced {
		total += fmt.Sprintf(", %.2f", s.TotalPrice)
	}
	if r.Purchase != nil {
		total += fmt.Sprintf(" (order %d pieces with %.0f%% spares", r.Purchase.TotalPieces, r.Purchase.SparePercent)
		if priced {
			total += fmt.Sprintf(", %.2f", r.Purchase.TotalCost)
		}
		total += ")"
	}
	pdf.CellFormat(200, 6, total, "", 0, "L", false, 0, "")
	y += 8

	if s.Unfilled > 0 {
		y = ensureSpace(pdf, y, 7)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, fmt.Sprintf("WARNING: %d anchors left unfilled", s.Unfilled), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BrickMosaic", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// Palette preview grid.
const (
	swatchCols = 6
	swatchW    = 40.0
	swatchH    = 18.0
	swatchGap  = 4.0
)

// renderPalettePage shows every catalog color as a labelled swatch.
func renderPalettePage(pdf *fpdf.Fpdf, palette []model.CatalogColor) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Color Palette", "", 0, "L", false, 0, "")

	y := marginTop + 16
	for i, c := range palette {
		col := i % swatchCols
		if i > 0 && col == 0 {
			y += swatchH + swatchGap
			if y+swatchH > pageHeight-marginBottom {
				pdf.AddPage()
				y = marginTop
			}
		}
		x := marginLeft + float64(col)*(swatchW+swatchGap)

		pdf.SetFillColor(int(c.RGB.R), int(c.RGB.G), int(c.RGB.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, swatchW, swatchH, "FD")

		if isDark(c.RGB) {
			pdf.SetTextColor(255, 255, 255)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(x+1, y+swatchH/2-4)
		pdf.CellFormat(swatchW-2, 4, c.Name, "", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x+1, y+swatchH/2)
		pdf.CellFormat(swatchW-2, 4, c.Hex(), "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 20:
		return 8
	case minDim > 10:
		return 7
	default:
		return 6
	}
}
