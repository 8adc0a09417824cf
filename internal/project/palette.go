package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// DefaultPalettePath returns the default file path for the user's color
// palette. This is located at ~/.brickmosaic/palette.json.
func DefaultPalettePath() string {
	return filepath.Join(DefaultConfigDir(), "palette.json")
}

// SavePalette writes the palette to the specified JSON file.
// It creates parent directories if they do not exist.
func SavePalette(path string, colors []model.CatalogColor) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(colors, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPalette reads the palette from the specified JSON file.
// If the file does not exist, it returns the built-in colors and saves them.
func LoadPalette(path string) ([]model.CatalogColor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			colors := append([]model.CatalogColor(nil), model.DefaultCatalogColors...)
			if saveErr := SavePalette(path, colors); saveErr != nil {
				return colors, saveErr
			}
			return colors, nil
		}
		return nil, err
	}
	var colors []model.CatalogColor
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, err
	}
	if _, err := model.NewCatalog(colors); err != nil {
		return nil, err
	}
	return colors, nil
}

// ImportPalette merges the colors of another palette file into existing.
// Colors whose name is already present are skipped.
func ImportPalette(path string, existing []model.CatalogColor) ([]model.CatalogColor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported []model.CatalogColor
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		names[c.Name] = true
	}
	for _, c := range imported {
		if !names[c.Name] {
			existing = append(existing, c)
			names[c.Name] = true
		}
	}
	return existing, nil
}

// ApplyPalette makes the palette the base of cfg's color overrides. Colors
// the config itself declares keep the config's value.
func ApplyPalette(cfg *model.Config, palette []model.CatalogColor) {
	own := make(map[string]bool, len(cfg.Colors))
	for _, c := range cfg.Colors {
		own[c.Name] = true
	}
	var merged []model.CatalogColor
	for _, c := range palette {
		if !own[c.Name] {
			merged = append(merged, c)
		}
	}
	cfg.Colors = append(merged, cfg.Colors...)
}
