package model

import (
	"errors"
	"testing"
)

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]CatalogColor{{Name: "A"}, {Name: "A"}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	_, err = NewCatalog([]CatalogColor{{Name: ""}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty name, got %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	rgb, err := ParseHexColor("#D7C599")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rgb != (RGB{0xD7, 0xC5, 0x99}) {
		t.Errorf("unexpected rgb %v", rgb)
	}
	if _, err := ParseHexColor("not-a-color"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestCatalogColorHex(t *testing.T) {
	c := CatalogColor{Name: "Red", RGB: RGB{196, 40, 27}}
	if c.Hex() != "#c4281b" {
		t.Errorf("expected #c4281b, got %s", c.Hex())
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	if cat.Len() != len(DefaultCatalogColors) {
		t.Errorf("expected %d colors, got %d", len(DefaultCatalogColors), cat.Len())
	}
	if rgb, ok := cat.Lookup("Black"); !ok || rgb != (RGB{0, 0, 0}) {
		t.Errorf("unexpected Black entry %v %v", rgb, ok)
	}
}
