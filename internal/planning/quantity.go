// Package planning computes suggested reorder quantities.
package planning

import (
	"math"

	"github.com/rs/zerolog"

	"procura/internal/models"
)

// DefaultNominalUsage stands in for the average monthly usage of a
// material whose consumption history is unknown.
const DefaultNominalUsage = 5

// Planner computes order quantities from stock positions. The zero
// value is not usable; construct with NewPlanner.
type Planner struct {
	nominalUsage float64
	log          zerolog.Logger
}

// NewPlanner returns a quantity planner. nominalUsage is the assumed
// monthly usage for materials with no recorded history; values <= 0
// fall back to DefaultNominalUsage.
func NewPlanner(nominalUsage float64, log zerolog.Logger) *Planner {
	if nominalUsage <= 0 {
		nominalUsage = DefaultNominalUsage
	}
	return &Planner{nominalUsage: nominalUsage, log: log}
}

// NominalUsage returns the assumed monthly usage for materials with no
// recorded history.
func (p *Planner) NominalUsage() float64 {
	return p.nominalUsage
}

// SuggestedQuantity returns the whole-unit order quantity for a
// material. The target restocks to 80% of capacity or three months of
// typical usage, whichever is smaller, and the result never falls below
// the reorder level. A computed negative quantity indicates corrupt
// input and is clamped to zero.
func (p *Planner) SuggestedQuantity(material models.Material) int {
	currentStock := material.StockQty
	reorderLevel := material.ReorderLevel
	maxStock := material.EffectiveMaxStock()
	avgUsage := material.EffectiveAvgUsage(p.nominalUsage)

	target := math.Min(math.Floor(maxStock*0.8), avgUsage*3)
	target = math.Min(target, maxStock)

	suggested := math.Max(target-currentStock, reorderLevel)
	if suggested < 0 || math.IsNaN(suggested) {
		p.log.Warn().
			Str("material", material.ID).
			Float64("computed", suggested).
			Msg("clamping invalid suggested quantity to zero")
		return 0
	}
	return int(math.Round(suggested))
}
