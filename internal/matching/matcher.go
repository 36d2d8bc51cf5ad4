// Package matching filters and ranks suppliers for a material.
//
// Eligibility is a deliberately loose keyword heuristic rather than a
// taxonomy join: supplier-category associations are not guaranteed in
// the data, so a rating floor acts as a safety net when keyword
// matching finds nothing.
package matching

import (
	"sort"
	"strings"

	"procura/internal/models"
)

// MinEligibleRating is the rating floor that qualifies a supplier even
// when no keyword match links it to the material.
const MinEligibleRating = 3

// Ranking weights for the deterministic supplier score.
const (
	ratingWeight      = 0.3
	fulfillmentWeight = 0.4
	deliveryWeight    = 0.3

	// Delivery times beyond this many days all score zero on the
	// delivery component.
	deliveryCapDays = 10
)

// EligibleSuppliers returns the suppliers that may serve the given
// material, ranked best-first by Score. The result may be empty; the
// caller is expected to skip such materials rather than fail the batch.
// Ties preserve input order.
func EligibleSuppliers(material models.Material, suppliers []models.Supplier) []models.Supplier {
	eligible := make([]models.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		if !s.IsActive {
			continue
		}
		if matchesCategory(s, material) || matchesDefaultSupplier(s, material) || s.Rating >= MinEligibleRating {
			eligible = append(eligible, s)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return Score(eligible[i]) > Score(eligible[j])
	})
	return eligible
}

// Score computes the deterministic ranking score for a supplier:
// rating, fulfillment rate, and delivery speed, weighted. It is the
// authoritative ordering the reasoning fallback relies on.
func Score(s models.Supplier) float64 {
	delivery := float64(s.DeliveryTime)
	if delivery > deliveryCapDays {
		delivery = deliveryCapDays
	}
	return s.Rating*ratingWeight + s.FulfillmentRate*fulfillmentWeight + (deliveryCapDays-delivery)*deliveryWeight
}

// Best returns the top-ranked supplier from an already ranked slice,
// or false when the slice is empty.
func Best(ranked []models.Supplier) (models.Supplier, bool) {
	if len(ranked) == 0 {
		return models.Supplier{}, false
	}
	return ranked[0], true
}

// ByName finds a supplier by exact name, falling back to a
// case-insensitive match. Used to resolve the supplier an external
// recommendation names back onto the eligible set.
func ByName(suppliers []models.Supplier, name string) (models.Supplier, bool) {
	for _, s := range suppliers {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range suppliers {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return models.Supplier{}, false
}

// matchesCategory reports whether the supplier name contains the
// material category. An empty category matches every supplier; the
// heuristic is kept loose on purpose.
func matchesCategory(s models.Supplier, material models.Material) bool {
	return strings.Contains(strings.ToLower(s.Name), strings.ToLower(material.Category))
}

func matchesDefaultSupplier(s models.Supplier, material models.Material) bool {
	if material.Supplier == "" {
		return false
	}
	return strings.Contains(strings.ToLower(material.Supplier), strings.ToLower(s.Name))
}
