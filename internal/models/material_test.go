package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestEffectiveMaxStock(t *testing.T) {
	m := Material{ReorderLevel: 50}
	assert.Equal(t, 100.0, m.EffectiveMaxStock())

	m.MaxStock = floatPtr(300)
	assert.Equal(t, 300.0, m.EffectiveMaxStock())
}

func TestEffectiveAvgUsage(t *testing.T) {
	m := Material{}
	assert.Equal(t, 5.0, m.EffectiveAvgUsage(5))

	m.AvgMonthlyUsage = floatPtr(42)
	assert.Equal(t, 42.0, m.EffectiveAvgUsage(5))
}

func TestEffectiveUnitAndCurrency(t *testing.T) {
	m := Material{}
	assert.Equal(t, "PC", m.EffectiveUnit())
	assert.Equal(t, "USD", m.EffectiveCurrency())

	m.Unit = "KG"
	m.Currency = "EUR"
	assert.Equal(t, "KG", m.EffectiveUnit())
	assert.Equal(t, "EUR", m.EffectiveCurrency())
}

func TestUrgencyRank(t *testing.T) {
	assert.Greater(t, UrgencyHigh.Rank(), UrgencyMedium.Rank())
	assert.Greater(t, UrgencyMedium.Rank(), UrgencyLow.Rank())
	assert.Equal(t, 0, Urgency("bogus").Rank())
}
