package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.xlsx")
	s := buildTestSummary()
	est := model.CalculatePurchaseEstimate(s, 0)

	if err := ExportXLSX(path, buildTestLayout(), s, &est); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{sheetInventory, sheetPieces, sheetMosaic}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d: expected %s, got %s", i, want[i], sheets[i])
		}
	}

	rows, err := f.GetRows(sheetInventory)
	if err != nil {
		t.Fatal(err)
	}
	// header, two used lines, blank, total
	if len(rows) != 5 {
		t.Fatalf("expected 5 inventory rows, got %d: %v", len(rows), rows)
	}
	if rows[0][6] != "To Order" {
		t.Errorf("expected To Order column, got %v", rows[0])
	}
	if rows[1][0] != "2x4" || rows[1][1] != "Red" || rows[1][3] != "1" {
		t.Errorf("unexpected first line %v", rows[1])
	}
	if rows[4][0] != "Total" || rows[4][3] != "3" {
		t.Errorf("unexpected total row %v", rows[4])
	}

	pieces, err := f.GetRows(sheetPieces)
	if err != nil {
		t.Fatal(err)
	}
	if len(pieces) != 4 {
		t.Fatalf("expected header plus 3 pieces, got %d", len(pieces))
	}
	if pieces[2][1] != "0" || pieces[2][2] != "2" || pieces[2][3] != "1x1" {
		t.Errorf("unexpected second piece %v", pieces[2])
	}
}

func TestExportXLSX_MosaicColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.xlsx")
	if err := ExportXLSX(path, buildTestLayout(), buildTestSummary(), nil); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	red, err := f.GetCellStyle(sheetMosaic, "D2")
	if err != nil {
		t.Fatal(err)
	}
	white, err := f.GetCellStyle(sheetMosaic, "A3")
	if err != nil {
		t.Fatal(err)
	}
	hole, err := f.GetCellStyle(sheetMosaic, "D3")
	if err != nil {
		t.Fatal(err)
	}
	if red == 0 || white == 0 || red == white {
		t.Errorf("expected distinct fill styles, got red=%d white=%d", red, white)
	}
	if hole != 0 {
		t.Errorf("expected an unstyled hole cell, got style %d", hole)
	}
}

func TestExportXLSX_NoLayout(t *testing.T) {
	if err := ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), nil, model.Summary{}, nil); err == nil {
		t.Error("expected an error without a layout")
	}
}
