package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// LabelInfo holds the data encoded into each bag label's QR code.
type LabelInfo struct {
	SummaryID string          `json:"summary"`
	PieceType model.PieceType `json:"piece"`
	Color     string          `json:"color"`
	Hex       string          `json:"hex"`
	Count     int             `json:"count"`
	ToOrder   int             `json:"to_order,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
	labelSwatch     = 5.0
)

// CollectLabelInfos returns one label per used piece type x color line of
// the summary. When est is non-nil each label also carries the order count.
func CollectLabelInfos(s model.Summary, est *model.PurchaseEstimate) []LabelInfo {
	toOrder := make(map[string]int)
	if est != nil {
		for _, pl := range est.Lines {
			toOrder[string(pl.PieceType)+"/"+pl.Color] = pl.ToOrder
		}
	}

	var labels []LabelInfo
	for _, l := range s.UsedLines() {
		labels = append(labels, LabelInfo{
			SummaryID: s.ID,
			PieceType: l.PieceType,
			Color:     l.Color,
			Hex:       l.Hex,
			Count:     l.Count,
			ToOrder:   toOrder[string(l.PieceType)+"/"+l.Color],
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded bag labels, one per piece type and
// color in the summary, laid out on an Avery 5160 sheet (US Letter).
func ExportLabels(path string, s model.Summary, est *model.PurchaseEstimate) error {
	labels := CollectLabelInfos(s, est)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %s %s: %w", label.PieceType, label.Color, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%s", info.PieceType, info.Color)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	if rgb, err := model.ParseHexColor(info.Hex); err == nil {
		pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.Rect(textX, y+labelPadding, labelSwatch, labelSwatch, "FD")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+labelSwatch+1, y+labelPadding)
	title := fmt.Sprintf("%s %s", info.PieceType, info.Color)
	if pdf.GetStringWidth(title) > textW-labelSwatch-1 {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW-labelSwatch-1 {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW-labelSwatch-1, 5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+7)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Count: %d", info.Count), "", 1, "L", false, 0, "")

	if info.ToOrder > 0 {
		pdf.SetXY(textX, y+labelPadding+11)
		pdf.CellFormat(textW, 3.5, fmt.Sprintf("Order: %d", info.ToOrder), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelHeight-labelPadding-3)
	pdf.CellFormat(textW, 3, info.Hex, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}
