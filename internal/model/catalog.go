package model

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// CatalogColor is one named catalog entry.
type CatalogColor struct {
	Name string `json:"name" yaml:"name"`
	RGB  RGB    `json:"rgb" yaml:"rgb"`
}

// Hex returns the color as a #rrggbb string.
func (c CatalogColor) Hex() string {
	return colorful.Color{R: float64(c.RGB.R) / 255, G: float64(c.RGB.G) / 255, B: float64(c.RGB.B) / 255}.Hex()
}

// Catalog is the fixed name -> RGB mapping for all known colors.
// Entries keep their declaration order.
type Catalog struct {
	colors []CatalogColor
	index  map[string]int
}

// NewCatalog builds a catalog. Duplicate names are rejected.
func NewCatalog(colors []CatalogColor) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(colors))}
	for _, col := range colors {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: catalog color with empty name", ErrInvalidConfig)
		}
		if _, dup := c.index[col.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate catalog color %q", ErrInvalidConfig, col.Name)
		}
		c.index[col.Name] = len(c.colors)
		c.colors = append(c.colors, col)
	}
	return c, nil
}

// Lookup returns the RGB for a color name.
func (c *Catalog) Lookup(name string) (RGB, bool) {
	i, ok := c.index[name]
	if !ok {
		return RGB{}, false
	}
	return c.colors[i].RGB, true
}

// Colors returns a copy of the catalog entries in declaration order.
func (c *Catalog) Colors() []CatalogColor {
	out := make([]CatalogColor, len(c.colors))
	copy(out, c.colors)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.colors)
}

// WithOverrides returns a new catalog where entries with an existing name
// replace the stored RGB and unknown names are appended.
func (c *Catalog) WithOverrides(overrides []CatalogColor) (*Catalog, error) {
	merged := c.Colors()
	seen := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		if seen[o.Name] {
			return nil, fmt.Errorf("%w: duplicate color override %q", ErrInvalidConfig, o.Name)
		}
		seen[o.Name] = true
		if i, ok := c.index[o.Name]; ok {
			merged[i].RGB = o.RGB
			continue
		}
		merged = append(merged, o)
	}
	return NewCatalog(merged)
}

// ParseHexColor parses "#rrggbb" (or the short "#rgb" form) into an RGB.
func ParseHexColor(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, s, err)
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// DefaultCatalogColors lists the built-in brick colors.
// Values follow the common brick color guides; White is an off-white as
// real bricks are.
var DefaultCatalogColors = []CatalogColor{
	{Name: "White", RGB: RGB{244, 244, 244}},
	{Name: "Black", RGB: RGB{0, 0, 0}},
	{Name: "Red", RGB: RGB{196, 40, 27}},
	{Name: "Blue", RGB: RGB{13, 105, 171}},
	{Name: "Yellow", RGB: RGB{245, 205, 47}},
	{Name: "Green", RGB: RGB{40, 127, 70}},
	{Name: "Tan", RGB: RGB{215, 197, 153}},
	{Name: "Orange", RGB: RGB{218, 133, 64}},
	{Name: "Medium Blue", RGB: RGB{110, 153, 201}},
	{Name: "Dark Stone Grey", RGB: RGB{99, 95, 97}},
	{Name: "Light Stone Grey", RGB: RGB{163, 162, 164}},
	{Name: "Reddish Brown", RGB: RGB{105, 64, 39}},
	{Name: "Lime", RGB: RGB{164, 189, 70}},
	{Name: "Light Purple", RGB: RGB{228, 173, 200}},
	{Name: "Magenta", RGB: RGB{146, 57, 120}},
}

// DefaultCatalog returns a catalog built from DefaultCatalogColors.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCatalogColors)
	if err != nil {
		panic(err)
	}
	return c
}
