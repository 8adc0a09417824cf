package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Piece,Color,Price\n1x1,White,0.10\n2x4,Red,0.35\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Piece;Color;Price\n1x1;White;0,10\n2x4;Red;0,35\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Piece\tColor\tPrice\n1x1\tWhite\t0.10\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Piece", "Color", "Price"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Piece != 0 || mapping.Color != 1 || mapping.Price != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Unit Cost", "COLOUR", "Type"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Piece != 2 || mapping.Color != 1 || mapping.Price != 0 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"1x1", "White", "0.10"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Piece != 0 || mapping.Color != 1 || mapping.Price != 2 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	input := "Color,Piece,Price\nWhite,1x1,0.10\nRed,2X4,0.35\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0].PieceType != model.Piece1x1 || result.Rows[0].Color != "White" || result.Rows[0].Price != 0.10 {
		t.Errorf("unexpected first row %+v", result.Rows[0])
	}
	if result.Rows[1].PieceType != model.Piece2x4 {
		t.Errorf("expected piece type normalized to 2x4, got %q", result.Rows[1].PieceType)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("2x2,Blue,0.20\n1×3,Tan,0.15\n"), ',')
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[1].PieceType != model.Piece1x3 {
		t.Errorf("expected 1x3, got %q", result.Rows[1].PieceType)
	}
}

func TestImportCSVFromReader_DecimalCommaAndCurrency(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Piece;Color;Price\n1x1;White;€0,12\n"), ';')
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 1 || result.Rows[0].Price != 0.12 {
		t.Errorf("expected price 0.12, got %+v", result.Rows)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.35", 0.35, true},
		{"$1.20", 1.2, true},
		{"€0,12", 0.12, true},
		{"1,000", 1.0, true}, // lone comma is a decimal comma
		{"1,000.50", 0, false},
		{"1,000,000", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parsePrice(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestImportCSVFromReader_InvalidRows(t *testing.T) {
	input := "Piece,Color,Price\n" +
		"3x3,Red,0.10\n" + // unsupported footprint
		"1x1,,0.10\n" + // missing color
		"1x1,Red,abc\n" + // bad price
		"1x1,Red,-1\n" + // negative
		"1x2,Red,0.05\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if len(result.Rows) != 1 {
		t.Errorf("expected 1 valid row, got %d", len(result.Rows))
	}
	if !strings.HasPrefix(result.Errors[0], "Line 2:") {
		t.Errorf("expected error to name Line 2, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_DuplicateUsesLaterPrice(t *testing.T) {
	input := "Piece,Color,Price\n1x1,White,0.10\n1x1,White,0.08\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if result.Rows[0].Price != 0.08 {
		t.Errorf("expected later price 0.08, got %v", result.Rows[0].Price)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected a duplicate warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Piece,Color\n1x1,White\n"), ',')
	if result.OK() {
		t.Fatal("expected an error for the missing price column")
	}
	if !strings.Contains(result.Errors[0], "Price") {
		t.Errorf("expected error to name Price, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Piece,Color,Price\n"), ',')
	if result.OK() {
		t.Error("expected an error for a list without rows")
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte("Piece|Color|Price\n1x1|White|0.10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportPriceList(path)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "pipe") {
		t.Errorf("expected pipe delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if result.OK() {
		t.Error("expected an error for a missing file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Type", "Colour", "Unit Price"},
		{"1x1", "White", 0.1},
		{"2x4", "Red", 0.35},
	})

	result := ImportPriceList(path)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[1].PieceType != model.Piece2x4 || result.Rows[1].Color != "Red" || result.Rows[1].Price != 0.35 {
		t.Errorf("unexpected row %+v", result.Rows[1])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if result.OK() {
		t.Error("expected an error for a missing file")
	}
}

// ─── ApplyPrices Tests ─────────────────────────────────────

func TestApplyPrices(t *testing.T) {
	specs := []model.PieceSpec{
		{Type: "1X1", Colors: []model.PriceEntry{{Color: "White", Price: 0.1}, {Color: "Black", Price: 0.1}}},
		{Type: model.Piece2x4, Colors: []model.PriceEntry{{Color: "Red", Price: 0.3}}},
	}
	warnings := ApplyPrices(specs, []PriceRow{
		{PieceType: model.Piece1x1, Color: "Black", Price: 0.07},
		{PieceType: model.Piece2x4, Color: "Red", Price: 0.4},
		{PieceType: model.Piece2x2, Color: "Red", Price: 0.2},
	})

	if specs[0].Colors[0].Price != 0.1 {
		t.Errorf("White price should be unchanged, got %v", specs[0].Colors[0].Price)
	}
	if specs[0].Colors[1].Price != 0.07 {
		t.Errorf("expected Black 0.07, got %v", specs[0].Colors[1].Price)
	}
	if specs[1].Colors[0].Price != 0.4 {
		t.Errorf("expected Red 0.4, got %v", specs[1].Colors[0].Price)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "2x2") {
		t.Errorf("expected one warning for 2x2 Red, got %v", warnings)
	}
}
