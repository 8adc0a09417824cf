package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

func TestDefaultPalettePath(t *testing.T) {
	path := DefaultPalettePath()
	if filepath.Base(path) != "palette.json" {
		t.Errorf("expected filename palette.json, got %s", filepath.Base(path))
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != ".brickmosaic" {
		t.Errorf("expected parent dir .brickmosaic, got %s", dir)
	}
}

func TestSaveAndLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.json")
	colors := []model.CatalogColor{
		{Name: "Sand", RGB: model.RGB{R: 215, G: 197, B: 153}},
		{Name: "Ink", RGB: model.RGB{R: 10, G: 20, B: 30}},
	}

	if err := SavePalette(path, colors); err != nil {
		t.Fatalf("SavePalette failed: %v", err)
	}
	loaded, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != colors[0] || loaded[1] != colors[1] {
		t.Errorf("palette mismatch: got %+v", loaded)
	}
}

func TestLoadPalette_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "palette.json")

	colors, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette failed: %v", err)
	}
	if len(colors) != len(model.DefaultCatalogColors) {
		t.Errorf("expected %d default colors, got %d", len(model.DefaultCatalogColors), len(colors))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default palette to be saved: %v", err)
	}
}

func TestLoadPalette_RejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.json")
	data, _ := json.Marshal([]model.CatalogColor{{Name: "A"}, {Name: "A"}})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPalette(path); err == nil {
		t.Fatal("expected error for duplicate color names")
	}
}

func TestImportPalette_SkipsExistingNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.json")
	extra := []model.CatalogColor{
		{Name: "White", RGB: model.RGB{R: 1, G: 1, B: 1}},
		{Name: "Teal", RGB: model.RGB{G: 128, B: 128}},
	}
	if err := SavePalette(path, extra); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportPalette(path, []model.CatalogColor{{Name: "White", RGB: model.RGB{R: 244, G: 244, B: 244}}})
	if err != nil {
		t.Fatalf("ImportPalette failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(merged))
	}
	if merged[0].RGB.R != 244 {
		t.Errorf("existing White should win, got %+v", merged[0])
	}
	if merged[1].Name != "Teal" {
		t.Errorf("expected Teal appended, got %+v", merged[1])
	}
}

func TestApplyPalette_ConfigWins(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Colors = []model.CatalogColor{{Name: "Teal", RGB: model.RGB{G: 100, B: 100}}}

	ApplyPalette(&cfg, []model.CatalogColor{
		{Name: "Teal", RGB: model.RGB{G: 128, B: 128}},
		{Name: "Sand", RGB: model.RGB{R: 215, G: 197, B: 153}},
	})

	if len(cfg.Colors) != 2 {
		t.Fatalf("expected 2 colors, got %+v", cfg.Colors)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if rgb, _ := cat.Lookup("Teal"); rgb.G != 100 {
		t.Errorf("expected config Teal to win, got %v", rgb)
	}
	if _, ok := cat.Lookup("Sand"); !ok {
		t.Error("expected Sand from the palette")
	}
}
