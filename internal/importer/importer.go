// Package importer reads external inputs for a mosaic session: CSV and
// Excel price lists, and pixel-art images sampled into block colors.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// PriceRow is one priced (piece type, color) pair read from a price list.
type PriceRow struct {
	PieceType model.PieceType
	Color     string
	Price     float64
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rows     []PriceRow
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced no errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Piece int
	Color int
	Price int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"piece": {"piece", "piece type", "type", "brick", "part", "size", "footprint"},
	"color": {"color", "colour", "color name", "colour name", "name"},
	"price": {"price", "unit price", "cost", "unit cost", "eur", "usd"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (piece, color, price) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Piece: -1, Color: -1, Price: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "piece":
					if mapping.Piece == -1 {
						mapping.Piece = i
					}
				case "color":
					if mapping.Color == -1 {
						mapping.Color = i
					}
				case "price":
					if mapping.Price == -1 {
						mapping.Price = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Piece: 0, Color: 1, Price: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parsePrice accepts a plain number, optionally with a currency sign or a
// decimal comma. Thousands separators are not supported: a lone comma is
// always the decimal separator, so "1,000" reads as 1.0, and "1,000.50" or
// "1,000,000" are rejected.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimLeft(s, "$€£ "))
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// parseRow extracts a PriceRow from a row using the given column mapping.
// Returns the row and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (PriceRow, string) {
	pieceStr := getCell(row, mapping.Piece)
	if pieceStr == "" {
		return PriceRow{}, fmt.Sprintf("%s: Missing piece type", rowLabel)
	}
	pt, err := model.NormalizePieceType(pieceStr)
	if err != nil || !pt.IsSupported() {
		return PriceRow{}, fmt.Sprintf("%s: Unsupported piece type '%s'", rowLabel, pieceStr)
	}

	color := getCell(row, mapping.Color)
	if color == "" {
		return PriceRow{}, fmt.Sprintf("%s: Missing color", rowLabel)
	}

	priceStr := getCell(row, mapping.Price)
	if priceStr == "" {
		return PriceRow{}, fmt.Sprintf("%s: Missing price value", rowLabel)
	}
	price, err := parsePrice(priceStr)
	if err != nil {
		return PriceRow{}, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr)
	}
	if price < 0 {
		return PriceRow{}, fmt.Sprintf("%s: Price must not be negative", rowLabel)
	}

	return PriceRow{PieceType: pt, Color: color, Price: price}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportPriceList picks the CSV or Excel reader by file extension.
func ImportPriceList(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports a price list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	imported := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	imported.Warnings = append(result.Warnings, imported.Warnings...)
	return imported
}

// ImportCSVFromReader parses CSV records from reader with a known delimiter
// and turns them into price rows.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a price list from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// A later row for the same (piece type, color) replaces the earlier one.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		missing := []string{}
		if mapping.Piece == -1 {
			missing = append(missing, "Piece")
		}
		if mapping.Color == -1 {
			missing = append(missing, "Color")
		}
		if mapping.Price == -1 {
			missing = append(missing, "Price")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header still has a non-numeric price column.
		if _, err := parsePrice(rows[0][2]); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Unrecognized header row, skipping")
		}
	}

	seen := make(map[string]int)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		pr, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		key := string(pr.PieceType) + "/" + pr.Color
		if idx, dup := seen[key]; dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate entry for %s %s, using the later price", rowLabel, pr.PieceType, pr.Color))
			result.Rows[idx] = pr
			continue
		}
		seen[key] = len(result.Rows)
		result.Rows = append(result.Rows, pr)
	}

	if len(result.Rows) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

// ApplyPrices overwrites the unit prices of already configured (piece type,
// color) pairs. Rows for pairs the canvas does not allow are returned as
// warnings and ignored.
func ApplyPrices(specs []model.PieceSpec, rows []PriceRow) []string {
	var warnings []string
	for _, pr := range rows {
		applied := false
		for i := range specs {
			pt, err := model.NormalizePieceType(string(specs[i].Type))
			if err != nil || pt != pr.PieceType {
				continue
			}
			for j := range specs[i].Colors {
				if specs[i].Colors[j].Color == pr.Color {
					specs[i].Colors[j].Price = pr.Price
					applied = true
				}
			}
		}
		if !applied {
			warnings = append(warnings, fmt.Sprintf("Price for %s %s ignored: not in valid_pieces", pr.PieceType, pr.Color))
		}
	}
	return warnings
}
