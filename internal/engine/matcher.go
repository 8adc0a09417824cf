package engine

import (
	"fmt"

	"github.com/piwi3910/BrickMosaic/internal/model"
)

// Matcher resolves an arbitrary RGB to the nearest color a piece type may
// use.
type Matcher struct {
	inv *model.Inventory
}

// NewMatcher creates a matcher over the inventory's allowed colors.
func NewMatcher(inv *model.Inventory) *Matcher {
	return &Matcher{inv: inv}
}

// Closest returns the allowed color of pt with the smallest Euclidean RGB
// distance to rgb. Colors are scanned in declaration order and only a
// strictly smaller distance replaces the current best, so ties go to the
// color declared first.
func (m *Matcher) Closest(pt model.PieceType, rgb model.RGB) (string, model.RGB, error) {
	colors := m.inv.AllowedColors(pt)
	if len(colors) == 0 {
		return "", model.RGB{}, fmt.Errorf("%w: piece type %q", model.ErrEmptyColorSet, pt)
	}

	bestName := ""
	var bestRGB model.RGB
	bestDist := -1
	for _, name := range colors {
		c, err := m.inv.ColorRGB(pt, name)
		if err != nil {
			return "", model.RGB{}, err
		}
		d := rgb.DistanceSq(c)
		if bestDist < 0 || d < bestDist {
			bestName, bestRGB, bestDist = name, c, d
		}
	}
	return bestName, bestRGB, nil
}
