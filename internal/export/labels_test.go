package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

func TestCollectLabelInfos(t *testing.T) {
	s := buildTestSummary()
	est := model.CalculatePurchaseEstimate(s, 50)

	labels := CollectLabelInfos(s, &est)
	if len(labels) != 2 {
		t.Fatalf("expected one label per used line, got %d", len(labels))
	}

	first := labels[0]
	if first.SummaryID != "test-summary" || first.PieceType != model.Piece2x4 || first.Color != "Red" {
		t.Errorf("unexpected first label %+v", first)
	}
	if first.Count != 1 || first.ToOrder != 2 {
		t.Errorf("expected count 1 and order 2, got %d and %d", first.Count, first.ToOrder)
	}
	if labels[1].Hex != "#f4f4f4" || labels[1].ToOrder != 3 {
		t.Errorf("unexpected second label %+v", labels[1])
	}
}

func TestCollectLabelInfos_WithoutEstimate(t *testing.T) {
	for _, l := range CollectLabelInfos(buildTestSummary(), nil) {
		if l.ToOrder != 0 {
			t.Errorf("expected no order count, got %+v", l)
		}
	}
}

func TestLabelInfo_JSONOmitsEmptyOrder(t *testing.T) {
	data, err := json.Marshal(LabelInfo{PieceType: model.Piece1x1, Color: "White", Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["to_order"]; ok {
		t.Errorf("expected to_order to be omitted, got %s", data)
	}
	if m["piece"] != "1x1" {
		t.Errorf("expected piece 1x1, got %v", m["piece"])
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, buildTestSummary(), nil); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestExportLabels_NothingPlaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, model.Summary{}, nil); err == nil {
		t.Error("expected an error for an empty summary")
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	s := model.Summary{ID: "many"}
	for i := 0; i < 2*labelsPerPage+1; i++ {
		s.Lines = append(s.Lines, model.SummaryLine{
			PieceType: model.Piece1x1, Color: fmt.Sprintf("Color %d", i), Hex: "#808080", Count: 1,
		})
	}
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, s, nil); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertNonEmptyFile(t, path)
}
