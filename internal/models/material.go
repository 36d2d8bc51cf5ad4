package models

import "time"

// Material represents a stock-keeping item eligible for reordering
type Material struct {
	ID              string     `json:"materialID" yaml:"materialID"`
	Name            string     `json:"name" yaml:"name"`
	Category        string     `json:"category,omitempty" yaml:"category,omitempty"`
	StockQty        float64    `json:"stockQty" yaml:"stockQty"`
	ReorderLevel    float64    `json:"reorderLevel" yaml:"reorderLevel"`
	MaxStock        *float64   `json:"maxStock,omitempty" yaml:"maxStock,omitempty"`
	Unit            string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	AvgMonthlyUsage *float64   `json:"avgMonthlyUsage,omitempty" yaml:"avgMonthlyUsage,omitempty"`
	LastUsed        *time.Time `json:"lastUsed,omitempty" yaml:"lastUsed,omitempty"`
	UnitPrice       *float64   `json:"unitPrice,omitempty" yaml:"unitPrice,omitempty"`
	Supplier        string     `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	Currency        string     `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// MaterialUnit represents the unit of measurement for a material
type MaterialUnit string

const (
	// Count units
	UnitPiece MaterialUnit = "PC"
	UnitBox   MaterialUnit = "BOX"
	UnitRoll  MaterialUnit = "ROLL"

	// Weight units
	UnitKilogram MaterialUnit = "KG"
	UnitTon      MaterialUnit = "TON"

	// Volume units
	UnitLiter MaterialUnit = "L"
)

// DefaultUnit is used when a material record carries no unit of measure.
const DefaultUnit = string(UnitPiece)

// DefaultCurrency is used when a material record carries no currency code.
const DefaultCurrency = "USD"

// EffectiveMaxStock returns the material's maximum stock level, deriving
// a cap of twice the reorder level when none is recorded.
func (m Material) EffectiveMaxStock() float64 {
	if m.MaxStock != nil && *m.MaxStock > 0 {
		return *m.MaxStock
	}
	return m.ReorderLevel * 2
}

// EffectiveAvgUsage returns the recorded average monthly usage, or the
// given nominal default when usage history is unknown.
func (m Material) EffectiveAvgUsage(nominal float64) float64 {
	if m.AvgMonthlyUsage != nil && *m.AvgMonthlyUsage > 0 {
		return *m.AvgMonthlyUsage
	}
	return nominal
}

// EffectiveUnit returns the recorded unit of measure or the default.
func (m Material) EffectiveUnit() string {
	if m.Unit != "" {
		return m.Unit
	}
	return DefaultUnit
}

// EffectiveCurrency returns the recorded currency code or the default.
func (m Material) EffectiveCurrency() string {
	if m.Currency != "" {
		return m.Currency
	}
	return DefaultCurrency
}
