package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Workbook sheet names.
const (
	sheetInventory = "Inventory"
	sheetPieces    = "Pieces"
	sheetMosaic    = "Mosaic"
)

// ExportXLSX writes a workbook with the priced inventory, the list of placed
// pieces in commit order and a cell-per-block color map of the mosaic.
func ExportXLSX(path string, l *Layout, s model.Summary, est *model.PurchaseEstimate) error {
	if l == nil {
		return fmt.Errorf("no layout to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetInventory); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeInventorySheet(f, s, est); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetPieces); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetPieces, err)
	}
	if err := writePiecesSheet(f, l); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetMosaic); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetMosaic, err)
	}
	if err := writeMosaicSheet(f, l); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// setRow writes values into consecutive cells starting at column 1.
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// fillStyles caches one solid-fill style per hex color.
type fillStyles struct {
	f     *excelize.File
	cache map[string]int
}

func (fs *fillStyles) get(hex string) (int, error) {
	if id, ok := fs.cache[hex]; ok {
		return id, nil
	}
	id, err := fs.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{strings.TrimPrefix(hex, "#")}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create style for %s: %w", hex, err)
	}
	fs.cache[hex] = id
	return id, nil
}

func writeInventorySheet(f *excelize.File, s model.Summary, est *model.PurchaseEstimate) error {
	header := []interface{}{"Piece", "Color", "Hex", "Count", "Unit Price", "Subtotal"}
	toOrder := make(map[string]int)
	if est != nil {
		header = append(header, "To Order")
		for _, pl := range est.Lines {
			toOrder[string(pl.PieceType)+"/"+pl.Color] = pl.ToOrder
		}
	}
	if err := setRow(f, sheetInventory, 1, header...); err != nil {
		return err
	}

	styles := &fillStyles{f: f, cache: make(map[string]int)}
	row := 2
	for _, l := range s.UsedLines() {
		values := []interface{}{string(l.PieceType), l.Color, l.Hex, l.Count, l.UnitPrice, l.Subtotal}
		if est != nil {
			values = append(values, toOrder[string(l.PieceType)+"/"+l.Color])
		}
		if err := setRow(f, sheetInventory, row, values...); err != nil {
			return err
		}
		style, err := styles.get(l.Hex)
		if err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellStyle(sheetInventory, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style %s: %w", cell, err)
		}
		row++
	}

	if err := setRow(f, sheetInventory, row+1, "Total", "", "", s.TotalPieces, "", s.TotalPrice); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetInventory, "A", "G", 14); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writePiecesSheet(f *excelize.File, l *Layout) error {
	if err := setRow(f, sheetPieces, 1, "#", "X", "Y", "Piece", "Color", "Hex"); err != nil {
		return err
	}
	for i, p := range l.Pieces() {
		hex := model.CatalogColor{Name: p.ColorName, RGB: p.Color}.Hex()
		if err := setRow(f, sheetPieces, i+2, i+1, p.Pos.X, p.Pos.Y, string(p.PieceType), p.ColorName, hex); err != nil {
			return err
		}
	}
	return nil
}

// writeMosaicSheet colors one square cell per block, columns along x and
// rows along y.
func writeMosaicSheet(f *excelize.File, l *Layout) error {
	b := l.Bounds()
	if b.Empty() {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(b.Dx())
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetMosaic, "A", lastCol, 2.5); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	for y := 1; y <= b.Dy(); y++ {
		if err := f.SetRowHeight(sheetMosaic, y, 14); err != nil {
			return fmt.Errorf("failed to set row height: %w", err)
		}
	}

	styles := &fillStyles{f: f, cache: make(map[string]int)}
	for _, p := range l.Pieces() {
		r := p.Rect().Intersect(b)
		if r.Empty() {
			continue
		}
		style, err := styles.get(model.CatalogColor{RGB: p.Color}.Hex())
		if err != nil {
			return err
		}
		top, _ := excelize.CoordinatesToCellName(r.Min.X+1, r.Min.Y+1)
		bottom, _ := excelize.CoordinatesToCellName(r.Max.X, r.Max.Y)
		if err := f.SetCellStyle(sheetMosaic, top, bottom, style); err != nil {
			return fmt.Errorf("failed to style %s:%s: %w", top, bottom, err)
		}
	}
	return nil
}
