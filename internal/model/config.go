package model

import (
	"fmt"
	"image"
)

// Default values for optional configuration fields.
const (
	DefaultPieceSizePx  = 30
	DefaultSparePercent = 0.0
)

// CanvasConfig describes the mosaic baseplate and the pieces allowed on it.
type CanvasConfig struct {
	BlocksPerRow int         `json:"blocks_per_row"` // grid width (x)
	BlocksPerCol int         `json:"blocks_per_col"` // grid height (y)
	PieceSizePx  int         `json:"piece_size_px"`  // cell size in the rendered bitmap
	ValidPieces  []PieceSpec `json:"valid_pieces"`
}

// DesignConfig describes one pixel-art image to place on the canvas.
type DesignConfig struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Size      image.Point     `json:"size"`     // blocks along x and y
	Position  image.Point     `json:"position"` // top-left anchor on the canvas
	KeepWhite bool            `json:"keep_white"`
	Crop      image.Rectangle `json:"crop"` // empty = whole image
}

// Config is the full session configuration.
type Config struct {
	Canvas       CanvasConfig   `json:"canvas_config"`
	Colors       []CatalogColor `json:"colors"` // catalog overrides and additions
	PriceList    string         `json:"price_list"`
	Seed         int64          `json:"seed"` // 0 = seed from the clock
	SparePercent float64        `json:"spare_percent"`
	Designs      []DesignConfig `json:"designs"`
}

// DefaultConfig returns a small canvas with a single 1x1 white fallback.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			BlocksPerRow: 32,
			BlocksPerCol: 32,
			PieceSizePx:  DefaultPieceSizePx,
			ValidPieces: []PieceSpec{
				{Type: Piece1x1, Colors: []PriceEntry{{Color: "White", Price: 0.05}, {Color: "Black", Price: 0.05}}},
			},
		},
		SparePercent: DefaultSparePercent,
	}
}

// ApplyDefaults fills in optional fields left at their zero value.
func (c *Config) ApplyDefaults() {
	if c.Canvas.PieceSizePx == 0 {
		c.Canvas.PieceSizePx = DefaultPieceSizePx
	}
	for i := range c.Designs {
		if c.Designs[i].Name == "" {
			c.Designs[i].Name = fmt.Sprintf("design-%d", i+1)
		}
	}
}

// Validate checks shapes that can be verified without building the engine.
func (c Config) Validate() error {
	if c.Canvas.BlocksPerRow <= 0 || c.Canvas.BlocksPerCol <= 0 {
		return fmt.Errorf("%w: canvas must be at least 1x1 blocks, got %dx%d",
			ErrInvalidConfig, c.Canvas.BlocksPerRow, c.Canvas.BlocksPerCol)
	}
	if c.Canvas.PieceSizePx < 0 {
		return fmt.Errorf("%w: piece_size_px must not be negative", ErrInvalidConfig)
	}
	if len(c.Canvas.ValidPieces) == 0 {
		return fmt.Errorf("%w: canvas_config.valid_pieces is empty", ErrInvalidConfig)
	}
	if c.SparePercent < 0 {
		return fmt.Errorf("%w: spare_percent must not be negative", ErrInvalidConfig)
	}
	grid := image.Rect(0, 0, c.Canvas.BlocksPerRow, c.Canvas.BlocksPerCol)
	names := make(map[string]bool, len(c.Designs))
	for _, d := range c.Designs {
		if names[d.Name] {
			return fmt.Errorf("%w: duplicate design %q", ErrInvalidConfig, d.Name)
		}
		names[d.Name] = true
		if d.Path == "" {
			return fmt.Errorf("%w: design %q has no path", ErrInvalidConfig, d.Name)
		}
		if d.Size.X <= 0 || d.Size.Y <= 0 {
			return fmt.Errorf("%w: design %q has invalid size %v", ErrInvalidConfig, d.Name, d.Size)
		}
		placed := image.Rectangle{Min: d.Position, Max: d.Position.Add(d.Size)}
		if d.Position.X < 0 || d.Position.Y < 0 || !placed.In(grid) {
			return fmt.Errorf("%w: design %q at %v size %v does not fit the %dx%d canvas",
				ErrOutOfBounds, d.Name, d.Position, d.Size, c.Canvas.BlocksPerRow, c.Canvas.BlocksPerCol)
		}
		if !d.Crop.Empty() && (d.Crop.Min.X < 0 || d.Crop.Min.Y < 0) {
			return fmt.Errorf("%w: design %q has negative crop %v", ErrInvalidConfig, d.Name, d.Crop)
		}
	}
	return nil
}

// Catalog builds the color catalog: the defaults plus any overrides.
func (c Config) Catalog() (*Catalog, error) {
	return DefaultCatalog().WithOverrides(c.Colors)
}
