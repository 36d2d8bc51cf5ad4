package models

import "time"

// Urgency is the coarse restocking bucket derived from how far stock
// has fallen below the reorder level
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Rank returns the sort weight of an urgency tier, higher is more urgent.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

// RiskLevel grades the supply risk of ordering from the chosen supplier
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Suggestion is one proposed purchase order for a low-stock material.
// Suggestions are assembled fresh on every engine invocation and carry
// no persisted identity.
type Suggestion struct {
	MaterialID        string    `json:"materialID"`
	MaterialName      string    `json:"materialName"`
	Category          string    `json:"category,omitempty"`
	CurrentStock      float64   `json:"currentStock"`
	ReorderLevel      float64   `json:"reorderLevel"`
	SuggestedQuantity int       `json:"suggestedQuantity"`
	Unit              string    `json:"unit"`
	SupplierID        string    `json:"supplierID"`
	SupplierName      string    `json:"supplierName"`
	UnitPrice         float64   `json:"unitPrice"`
	TotalAmount       float64   `json:"totalAmount"`
	Currency          string    `json:"currency"`
	DeliveryDate      string    `json:"deliveryDate"`
	DeliveryTime      int       `json:"deliveryTime"`
	SupplierRating    float64   `json:"supplierRating"`
	FulfillmentRate   float64   `json:"fulfillmentRate"`
	AIReasoning       string    `json:"aiReasoning"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	Priority          int       `json:"priority"`
	Urgency           Urgency   `json:"urgency"`
}

// Metadata summarizes one engine invocation for the caller
type Metadata struct {
	RequestID           string    `json:"requestID"`
	LowStockCount       int       `json:"lowStockCount"`
	ActiveSupplierCount int       `json:"activeSupplierCount"`
	SkippedCount        int       `json:"skippedCount"`
	GeneratedAt         time.Time `json:"generatedAt"`
	ValidUntil          time.Time `json:"validUntil"`
}

// Summary aggregates suggestion totals the way the ordering dashboard
// presents them
type Summary struct {
	TotalSuggestions int     `json:"totalSuggestions"`
	TotalValue       float64 `json:"totalValue"`
	HighUrgency      int     `json:"highUrgency"`
	MediumUrgency    int     `json:"mediumUrgency"`
	LowUrgency       int     `json:"lowUrgency"`
}

// ResultEnvelope is the engine's single output shape. Success is false
// only when the batch could not start at all; per-material skips and
// degraded reasoning calls never flip it.
type ResultEnvelope struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Partial     bool         `json:"partial,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
	Summary     Summary      `json:"summary"`
	Metadata    *Metadata    `json:"metadata,omitempty"`
}
