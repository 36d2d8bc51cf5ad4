// Package scoring computes the 0-100 restocking priority score and the
// coarse urgency tier for a material. All functions are pure: the
// reference time for staleness is an explicit input so identical inputs
// always yield identical scores.
package scoring

import (
	"strings"
	"time"

	"procura/internal/models"
)

// Point buckets that make up the priority score.
const (
	maxStockUrgencyPoints = 40
	maxUsagePoints        = 30
	criticalityPoints     = 20
	maxStalenessPoints    = 10

	// MaxPriority caps the additive score.
	MaxPriority = 100
)

// criticalCategories mark materials whose shortage carries outsized
// operational risk. Matched case-insensitively against both the
// category and the material name.
var criticalCategories = []string{"safety", "electrical", "raw materials"}

// Priority computes the restocking priority for a material on a 0-100
// scale. Higher means more urgent. A zero reorder level is treated as 1
// so the stock ratio is always defined.
func Priority(material models.Material, currentStock, reorderLevel, avgUsage float64, now time.Time) int {
	priority := 0

	// Stock level urgency (0-40 points)
	level := reorderLevel
	if level <= 0 {
		level = 1
	}
	ratio := currentStock / level
	switch {
	case ratio <= 0.5:
		priority += maxStockUrgencyPoints
	case ratio <= 0.8:
		priority += 30
	case ratio <= 1.0:
		priority += 20
	default:
		priority += 10
	}

	// Usage frequency (0-30 points)
	switch {
	case avgUsage > 50:
		priority += maxUsagePoints
	case avgUsage > 20:
		priority += 20
	case avgUsage > 5:
		priority += 10
	}

	// Category importance (0-20 points)
	if isCritical(material) {
		priority += criticalityPoints
	}

	// Staleness (0-10 points)
	if material.LastUsed != nil {
		days := now.Sub(*material.LastUsed).Hours() / 24
		if days > 30 {
			priority += maxStalenessPoints
		} else if days > 14 {
			priority += 5
		}
	}

	if priority > MaxPriority {
		priority = MaxPriority
	}
	return priority
}

// UrgencyFor derives the coarse urgency tier from the stock position.
// The tier is the primary sort key for the final suggestion list and is
// deliberately independent of the finer-grained priority score.
func UrgencyFor(currentStock, reorderLevel float64) models.Urgency {
	switch {
	case currentStock <= reorderLevel*0.5:
		return models.UrgencyHigh
	case currentStock <= reorderLevel:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

func isCritical(material models.Material) bool {
	category := strings.ToLower(material.Category)
	name := strings.ToLower(material.Name)
	for _, critical := range criticalCategories {
		if strings.Contains(category, critical) || strings.Contains(name, critical) {
			return true
		}
	}
	return false
}
