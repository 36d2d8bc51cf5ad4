package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/models"
)

func TestEligibleSuppliersFiltering(t *testing.T) {
	material := models.Material{ID: "MAT-1", Name: "Copper Wire", Category: "Electrical"}

	suppliers := []models.Supplier{
		{ID: "S1", Name: "Electrical Wholesale", IsActive: true, Rating: 2, FulfillmentRate: 80, DeliveryTime: 5},
		{ID: "S2", Name: "General Trading", IsActive: true, Rating: 4, FulfillmentRate: 90, DeliveryTime: 3},
		{ID: "S3", Name: "Inactive Electrical", IsActive: false, Rating: 5, FulfillmentRate: 99, DeliveryTime: 2},
		{ID: "S4", Name: "Budget Imports", IsActive: true, Rating: 2, FulfillmentRate: 70, DeliveryTime: 12},
	}

	eligible := EligibleSuppliers(material, suppliers)

	ids := make([]string, 0, len(eligible))
	for _, s := range eligible {
		ids = append(ids, s.ID)
	}
	// S1 matches by category keyword despite its low rating, S2 by the
	// rating floor. S3 is inactive, S4 fails every clause.
	assert.ElementsMatch(t, []string{"S1", "S2"}, ids)
}

func TestEligibleSuppliersDefaultSupplierMatch(t *testing.T) {
	material := models.Material{ID: "MAT-2", Name: "Grease", Category: "Lubricants", Supplier: "Acme Industrial Co."}

	suppliers := []models.Supplier{
		{ID: "S1", Name: "Acme Industrial", IsActive: true, Rating: 1, FulfillmentRate: 75, DeliveryTime: 9},
	}

	eligible := EligibleSuppliers(material, suppliers)
	require.Len(t, eligible, 1)
	assert.Equal(t, "S1", eligible[0].ID)
}

func TestEligibleSuppliersUncategorizedMatchesAnyActive(t *testing.T) {
	// The keyword heuristic is loose on purpose: a material with no
	// category keyword-matches every supplier name.
	material := models.Material{ID: "MAT-3", Name: "Mystery Part"}

	suppliers := []models.Supplier{
		{ID: "S1", Name: "Budget Imports", IsActive: true, Rating: 1, FulfillmentRate: 60, DeliveryTime: 20},
		{ID: "S2", Name: "Dormant Trading", IsActive: false, Rating: 5, FulfillmentRate: 99, DeliveryTime: 1},
	}

	eligible := EligibleSuppliers(material, suppliers)
	require.Len(t, eligible, 1)
	assert.Equal(t, "S1", eligible[0].ID)
}

func TestEligibleSuppliersEmpty(t *testing.T) {
	material := models.Material{ID: "MAT-4", Name: "Filter", Category: "Filtration"}
	eligible := EligibleSuppliers(material, nil)
	assert.Empty(t, eligible)
}

func TestScore(t *testing.T) {
	s := models.Supplier{Rating: 5, FulfillmentRate: 98, DeliveryTime: 7}
	// 5*0.3 + 98*0.4 + (10-7)*0.3 = 1.5 + 39.2 + 0.9
	assert.InDelta(t, 41.6, Score(s), 1e-9)
}

func TestScoreCapsDeliveryTime(t *testing.T) {
	slow := models.Supplier{Rating: 4, FulfillmentRate: 90, DeliveryTime: 30}
	capped := models.Supplier{Rating: 4, FulfillmentRate: 90, DeliveryTime: 10}
	assert.Equal(t, Score(capped), Score(slow))
}

func TestRankingOrder(t *testing.T) {
	material := models.Material{ID: "MAT-5", Name: "Pipe", Category: ""}

	suppliers := []models.Supplier{
		{ID: "mid", Name: "Mid Tier", IsActive: true, Rating: 4, FulfillmentRate: 88, DeliveryTime: 6},
		{ID: "best", Name: "Best Vendor", IsActive: true, Rating: 5, FulfillmentRate: 98, DeliveryTime: 2},
		{ID: "worst", Name: "Worst Vendor", IsActive: true, Rating: 3, FulfillmentRate: 70, DeliveryTime: 14},
	}

	ranked := EligibleSuppliers(material, suppliers)
	require.Len(t, ranked, 3)
	assert.Equal(t, "best", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "worst", ranked[2].ID)
}

func TestRankingStableTies(t *testing.T) {
	material := models.Material{ID: "MAT-6", Name: "Valve"}

	// Identical stats: the supplier listed first must rank first.
	suppliers := []models.Supplier{
		{ID: "first", Name: "Twin A", IsActive: true, Rating: 4, FulfillmentRate: 90, DeliveryTime: 5},
		{ID: "second", Name: "Twin B", IsActive: true, Rating: 4, FulfillmentRate: 90, DeliveryTime: 5},
	}

	ranked := EligibleSuppliers(material, suppliers)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	ranked := []models.Supplier{{ID: "S1"}, {ID: "S2"}}
	best, ok := Best(ranked)
	assert.True(t, ok)
	assert.Equal(t, "S1", best.ID)
}

func TestByName(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: "S1", Name: "Acme Industrial"},
		{ID: "S2", Name: "Global Safety Supplies"},
	}

	s, ok := ByName(suppliers, "Global Safety Supplies")
	assert.True(t, ok)
	assert.Equal(t, "S2", s.ID)

	s, ok = ByName(suppliers, "acme industrial")
	assert.True(t, ok)
	assert.Equal(t, "S1", s.ID)

	_, ok = ByName(suppliers, "Unknown Vendor")
	assert.False(t, ok)
}
