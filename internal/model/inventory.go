package model

import "fmt"

// PriceEntry is one allowed color of a piece type with its unit price.
type PriceEntry struct {
	Color string  `json:"color" yaml:"color"`
	Price float64 `json:"price" yaml:"price"`
}

// PieceSpec declares a piece type and its priced colors, in the order they
// appear in configuration.
type PieceSpec struct {
	Type   PieceType    `json:"type" yaml:"type"`
	Colors []PriceEntry `json:"colors" yaml:"colors"`
}

// stockColor is a priced color slot with its usage counter.
type stockColor struct {
	name  string
	rgb   RGB
	price float64
	count int
}

// stockPiece holds the color slots of one piece type.
type stockPiece struct {
	pieceType PieceType
	footprint Footprint
	colors    []stockColor
	index     map[string]int
}

// Inventory tracks, per piece type, the allowed colors, their unit prices
// and how many pieces of each were placed. The key set is fixed when the
// inventory is built; lookups for any other key fail with ErrUnknownKey.
type Inventory struct {
	pieces []stockPiece
	index  map[PieceType]int
}

// NewInventory validates the piece specs against the catalog and builds an
// inventory with all counters at zero.
func NewInventory(catalog *Catalog, specs []PieceSpec) (*Inventory, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no piece types configured", ErrInvalidConfig)
	}
	inv := &Inventory{index: make(map[PieceType]int, len(specs))}
	for _, spec := range specs {
		pt, err := NormalizePieceType(string(spec.Type))
		if err != nil {
			return nil, err
		}
		if !pt.IsSupported() {
			return nil, fmt.Errorf("%w: unsupported piece type %q", ErrInvalidConfig, spec.Type)
		}
		if _, dup := inv.index[pt]; dup {
			return nil, fmt.Errorf("%w: duplicate piece type %q", ErrInvalidConfig, pt)
		}
		if len(spec.Colors) == 0 {
			return nil, fmt.Errorf("%w: piece type %q: %w", ErrInvalidConfig, pt, ErrEmptyColorSet)
		}

		sp := stockPiece{
			pieceType: pt,
			footprint: pt.Footprint(),
			index:     make(map[string]int, len(spec.Colors)),
		}
		for _, entry := range spec.Colors {
			if _, dup := sp.index[entry.Color]; dup {
				return nil, fmt.Errorf("%w: piece type %q lists color %q twice", ErrInvalidConfig, pt, entry.Color)
			}
			rgb, ok := catalog.Lookup(entry.Color)
			if !ok {
				return nil, fmt.Errorf("%w: piece type %q uses color %q which is not in the catalog", ErrInvalidConfig, pt, entry.Color)
			}
			if entry.Price < 0 {
				return nil, fmt.Errorf("%w: piece type %q color %q has negative price %.2f", ErrInvalidConfig, pt, entry.Color, entry.Price)
			}
			sp.index[entry.Color] = len(sp.colors)
			sp.colors = append(sp.colors, stockColor{name: entry.Color, rgb: rgb, price: entry.Price})
		}

		inv.index[pt] = len(inv.pieces)
		inv.pieces = append(inv.pieces, sp)
	}
	return inv, nil
}

func (inv *Inventory) piece(pt PieceType) (*stockPiece, bool) {
	i, ok := inv.index[pt]
	if !ok {
		return nil, false
	}
	return &inv.pieces[i], true
}

func (inv *Inventory) slot(pt PieceType, color string) (*stockColor, error) {
	sp, ok := inv.piece(pt)
	if !ok {
		return nil, fmt.Errorf("%w: piece type %q", ErrUnknownKey, pt)
	}
	i, ok := sp.index[color]
	if !ok {
		return nil, fmt.Errorf("%w: color %q for piece type %q", ErrUnknownKey, color, pt)
	}
	return &sp.colors[i], nil
}

// Has reports whether the piece type was configured.
func (inv *Inventory) Has(pt PieceType) bool {
	_, ok := inv.index[pt]
	return ok
}

// PieceTypes returns the configured piece types in declaration order.
func (inv *Inventory) PieceTypes() []PieceType {
	types := make([]PieceType, len(inv.pieces))
	for i, p := range inv.pieces {
		types[i] = p.pieceType
	}
	return types
}

// AllowedColors returns the color names of a piece type in declaration
// order. The result is empty for an unknown piece type.
func (inv *Inventory) AllowedColors(pt PieceType) []string {
	sp, ok := inv.piece(pt)
	if !ok {
		return nil
	}
	names := make([]string, len(sp.colors))
	for i, c := range sp.colors {
		names[i] = c.name
	}
	return names
}

// ColorRGB returns the catalog RGB captured for a piece type's color.
func (inv *Inventory) ColorRGB(pt PieceType, color string) (RGB, error) {
	s, err := inv.slot(pt, color)
	if err != nil {
		return RGB{}, err
	}
	return s.rgb, nil
}

// UnitPrice returns the configured price of one piece.
func (inv *Inventory) UnitPrice(pt PieceType, color string) (float64, error) {
	s, err := inv.slot(pt, color)
	if err != nil {
		return 0, err
	}
	return s.price, nil
}

// Increment records one more placed piece.
func (inv *Inventory) Increment(pt PieceType, color string) error {
	s, err := inv.slot(pt, color)
	if err != nil {
		return err
	}
	s.count++
	return nil
}

// Count returns the placed count for a key, or 0 for an unknown key.
func (inv *Inventory) Count(pt PieceType, color string) int {
	s, err := inv.slot(pt, color)
	if err != nil {
		return 0
	}
	return s.count
}

// Counts returns a snapshot of every counter, including zero ones.
func (inv *Inventory) Counts() map[PieceType]map[string]int {
	out := make(map[PieceType]map[string]int, len(inv.pieces))
	for _, p := range inv.pieces {
		m := make(map[string]int, len(p.colors))
		for _, c := range p.colors {
			m[c.name] = c.count
		}
		out[p.pieceType] = m
	}
	return out
}

// InventoryLine is one piece type x color row of the inventory.
type InventoryLine struct {
	PieceType PieceType `json:"piece_type"`
	Color     string    `json:"color"`
	RGB       RGB       `json:"rgb"`
	UnitPrice float64   `json:"unit_price"`
	Count     int       `json:"count"`
}

// Lines returns every inventory row in declaration order.
func (inv *Inventory) Lines() []InventoryLine {
	var lines []InventoryLine
	for _, p := range inv.pieces {
		for _, c := range p.colors {
			lines = append(lines, InventoryLine{
				PieceType: p.pieceType,
				Color:     c.name,
				RGB:       c.rgb,
				UnitPrice: c.price,
				Count:     c.count,
			})
		}
	}
	return lines
}
