package model

import "math"

// SummaryLine is one piece type x color row of a summary.
type SummaryLine struct {
	PieceType PieceType `json:"piece_type"`
	Color     string    `json:"color"`
	Hex       string    `json:"hex"`
	Count     int       `json:"count"`
	UnitPrice float64   `json:"unit_price"`
	Subtotal  float64   `json:"subtotal"`
}

// Summary is the end-of-session report: how many pieces of each type and
// color were placed and what they cost.
type Summary struct {
	ID             string                       `json:"id"`
	CreatedAt      string                       `json:"created_at"`
	Width          int                          `json:"blocks_per_row"`
	Height         int                          `json:"blocks_per_col"`
	Counts         map[PieceType]map[string]int `json:"counts"`
	Lines          []SummaryLine                `json:"lines"`
	TotalPieces    int                          `json:"total_pieces"`
	CoveredAnchors int                          `json:"covered_anchors"`
	Unfilled       int                          `json:"unfilled_anchors"`
	TotalPrice     float64                      `json:"total_price"`
}

// HasPricing returns true if any placed piece has a non-zero price.
func (s Summary) HasPricing() bool {
	for _, l := range s.Lines {
		if l.Count > 0 && l.UnitPrice > 0 {
			return true
		}
	}
	return false
}

// Count returns the placed count for a key, or 0 when absent.
func (s Summary) Count(pt PieceType, color string) int {
	return s.Counts[pt][color]
}

// PiecesByType sums the counts of every color per piece type.
func (s Summary) PiecesByType() map[PieceType]int {
	out := make(map[PieceType]int, len(s.Counts))
	for pt, colors := range s.Counts {
		for _, n := range colors {
			out[pt] += n
		}
	}
	return out
}

// UsedLines returns only the lines with at least one placed piece.
func (s Summary) UsedLines() []SummaryLine {
	var used []SummaryLine
	for _, l := range s.Lines {
		if l.Count > 0 {
			used = append(used, l)
		}
	}
	return used
}

// PurchaseLine is how many pieces of one kind to order.
type PurchaseLine struct {
	PieceType PieceType `json:"piece_type"`
	Color     string    `json:"color"`
	Needed    int       `json:"needed"`
	ToOrder   int       `json:"to_order"` // Needed plus spares, rounded up
	UnitPrice float64   `json:"unit_price"`
	Cost      float64   `json:"cost"`
}

// PurchaseEstimate holds an order list derived from a summary.
type PurchaseEstimate struct {
	Lines        []PurchaseLine `json:"lines"`
	SparePercent float64        `json:"spare_percent"` // Extra pieces ordered (e.g., 5 for 5%)
	TotalPieces  int            `json:"total_pieces"`
	TotalCost    float64        `json:"total_cost"`
}

// CalculatePurchaseEstimate turns the placed counts into an order list.
// Every used line is padded by sparePercent and rounded up so lost pieces
// can be replaced; a line never orders less than it needs.
func CalculatePurchaseEstimate(s Summary, sparePercent float64) PurchaseEstimate {
	if sparePercent < 0 {
		sparePercent = 0
	}
	factor := 1.0 + sparePercent/100.0

	est := PurchaseEstimate{SparePercent: sparePercent}
	for _, l := range s.UsedLines() {
		toOrder := int(math.Ceil(float64(l.Count) * factor))
		if toOrder < l.Count {
			toOrder = l.Count
		}
		cost := float64(toOrder) * l.UnitPrice
		est.Lines = append(est.Lines, PurchaseLine{
			PieceType: l.PieceType,
			Color:     l.Color,
			Needed:    l.Count,
			ToOrder:   toOrder,
			UnitPrice: l.UnitPrice,
			Cost:      cost,
		})
		est.TotalPieces += toOrder
		est.TotalCost += cost
	}
	return est
}
