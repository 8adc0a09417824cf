package project

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// SummaryVersion is written into every summary document.
const SummaryVersion = "1.0.0"

// SummaryDocument is the persisted end-of-session report.
type SummaryDocument struct {
	Version   string                  `json:"version"`
	CreatedAt string                  `json:"created_at"`
	Summary   model.Summary           `json:"summary"`
	Purchase  *model.PurchaseEstimate `json:"purchase,omitempty"`
	Holes     []image.Point           `json:"holes,omitempty"` // anchors no piece could cover
}

// NewSummaryDocument wraps a summary with the current version and time.
func NewSummaryDocument(s model.Summary) SummaryDocument {
	return SummaryDocument{
		Version:   SummaryVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:   s,
	}
}

// SaveSummary writes doc as indented JSON, creating missing directories.
func SaveSummary(path string, doc SummaryDocument) error {
	if doc.Version == "" {
		doc.Version = SummaryVersion
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

// LoadSummary reads a summary document written by SaveSummary.
func LoadSummary(path string) (SummaryDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SummaryDocument{}, fmt.Errorf("failed to read summary file: %w", err)
	}
	var doc SummaryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return SummaryDocument{}, fmt.Errorf("failed to parse summary file: %w", err)
	}
	if doc.Version == "" {
		return SummaryDocument{}, fmt.Errorf("invalid summary file: missing version field")
	}
	if doc.Summary.Counts == nil {
		doc.Summary.Counts = map[model.PieceType]map[string]int{}
	}
	return doc, nil
}
