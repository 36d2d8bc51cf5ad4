package reasoning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/models"
)

// fakeOracle is a scripted Provider for tests.
type fakeOracle struct {
	calls     int
	responses []string
	err       error
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

// blockingOracle never answers; it waits out the call context.
type blockingOracle struct{ calls int }

func (b *blockingOracle) Complete(ctx context.Context, prompt string) (string, error) {
	b.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

var testMaterial = models.Material{ID: "MAT-1", Name: "Safety Gloves", Category: "Safety", StockQty: 5, ReorderLevel: 50}

var testEligible = []models.Supplier{
	{ID: "S1", Name: "Global Safety Supplies", IsActive: true, Rating: 5, FulfillmentRate: 98, DeliveryTime: 7},
	{ID: "S2", Name: "Budget Gear", IsActive: true, Rating: 3.5, FulfillmentRate: 82, DeliveryTime: 12},
}

func TestRecommendUsesOracleAnswer(t *testing.T) {
	oracle := &fakeOracle{responses: []string{
		`Based on the data: {"supplier": "Budget Gear", "reasoning": "cheapest with acceptable record", "riskLevel": "medium"}`,
	}}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)

	assert.Equal(t, "Budget Gear", rec.SupplierName)
	assert.Equal(t, "cheapest with acceptable record", rec.Reasoning)
	assert.Equal(t, models.RiskMedium, rec.RiskLevel)
	assert.Equal(t, 1, oracle.calls)
}

func TestRecommendFillsPlaceholders(t *testing.T) {
	oracle := &fakeOracle{responses: []string{`{"supplier": "Budget Gear"}`}}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)

	assert.Equal(t, "Budget Gear", rec.SupplierName)
	assert.NotEmpty(t, rec.Reasoning)
	assert.Equal(t, models.RiskMedium, rec.RiskLevel)
}

func TestRecommendNormalizesRiskLevel(t *testing.T) {
	oracle := &fakeOracle{responses: []string{`{"supplier": "Budget Gear", "riskLevel": "  LOW "}`}}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)
	assert.Equal(t, models.RiskLow, rec.RiskLevel)

	oracle = &fakeOracle{responses: []string{`{"supplier": "Budget Gear", "riskLevel": "catastrophic"}`}}
	client = NewClient(oracle, WithSleep(noSleep))

	rec = client.Recommend(context.Background(), testMaterial, testEligible, nil)
	assert.Equal(t, models.RiskMedium, rec.RiskLevel)
}

func TestRecommendRetriesThenFallsBack(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("connection refused")}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)

	// Initial attempt plus two retries.
	assert.Equal(t, 3, oracle.calls)
	assertFallback(t, rec)
}

func TestRecommendRetriesMalformedResponses(t *testing.T) {
	oracle := &fakeOracle{responses: []string{
		"I am not sure what to say.",
		"Still no JSON here.",
		`Finally: {"supplier": "Global Safety Supplies", "riskLevel": "low"}`,
	}}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)

	assert.Equal(t, 3, oracle.calls)
	assert.Equal(t, "Global Safety Supplies", rec.SupplierName)
	assert.Equal(t, models.RiskLow, rec.RiskLevel)
}

func TestRecommendDoesNotRetryPermissionErrors(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("status 403: permission denied")}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)

	assert.Equal(t, 1, oracle.calls)
	assertFallback(t, rec)
}

func TestRecommendTimesOutAndFallsBack(t *testing.T) {
	oracle := &blockingOracle{}
	client := NewClient(oracle, WithTimeout(5*time.Millisecond), WithSleep(noSleep))

	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)

	assert.Equal(t, 3, oracle.calls)
	assertFallback(t, rec)
}

func TestRecommendNilProviderAlwaysFallsBack(t *testing.T) {
	client := NewClient(nil)
	rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)
	assertFallback(t, rec)
}

func TestRecommendStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	oracle := &fakeOracle{err: errors.New("connection refused")}
	client := NewClient(oracle, WithSleep(noSleep))

	rec := client.Recommend(ctx, testMaterial, testEligible, nil)
	assertFallback(t, rec)
	assert.LessOrEqual(t, oracle.calls, 1)
}

func TestRecommendNeverReturnsMalformedResult(t *testing.T) {
	// Whatever the oracle does, the recommendation is fully populated.
	oracles := []Provider{
		&fakeOracle{err: errors.New("boom")},
		&fakeOracle{responses: []string{"garbage"}},
		&fakeOracle{responses: []string{`{"supplier": ""}`}},
		nil,
	}

	for i, oracle := range oracles {
		client := NewClient(oracle, WithSleep(noSleep))
		rec := client.Recommend(context.Background(), testMaterial, testEligible, nil)
		require.NotEmpty(t, rec.SupplierName, "case %d", i)
		require.NotEmpty(t, rec.Reasoning, "case %d", i)
		require.Contains(t, []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh}, rec.RiskLevel, "case %d", i)
	}
}

func TestRiskFromFulfillment(t *testing.T) {
	assert.Equal(t, models.RiskLow, RiskFromFulfillment(98))
	assert.Equal(t, models.RiskMedium, RiskFromFulfillment(95))
	assert.Equal(t, models.RiskMedium, RiskFromFulfillment(90))
	assert.Equal(t, models.RiskHigh, RiskFromFulfillment(85))
	assert.Equal(t, models.RiskHigh, RiskFromFulfillment(40))
}

func TestResolveSupplier(t *testing.T) {
	rec := Recommendation{SupplierName: "Budget Gear"}
	assert.Equal(t, "S2", ResolveSupplier(rec, testEligible).ID)

	// Oracle named someone outside the eligible set: take the top rank.
	rec = Recommendation{SupplierName: "Phantom Vendor"}
	assert.Equal(t, "S1", ResolveSupplier(rec, testEligible).ID)
}

func TestIsPermissionError(t *testing.T) {
	assert.True(t, IsPermissionError(errors.New("401 Unauthorized")))
	assert.True(t, IsPermissionError(errors.New("API returned status 403")))
	assert.True(t, IsPermissionError(errors.New("incorrect API key provided")))
	assert.True(t, IsPermissionError(ErrPermission))
	assert.False(t, IsPermissionError(errors.New("connection reset by peer")))
	assert.False(t, IsPermissionError(nil))
}

// assertFallback checks that a recommendation carries the deterministic
// fallback for the top-ranked test supplier (rating 5, fulfillment 98%).
func assertFallback(t *testing.T, rec Recommendation) {
	t.Helper()
	assert.Equal(t, "Global Safety Supplies", rec.SupplierName)
	assert.Contains(t, rec.Reasoning, "rating (5.0/5)")
	assert.Contains(t, rec.Reasoning, "fulfillment rate (98%)")
	assert.Contains(t, rec.Reasoning, "delivery time (7 days)")
	assert.Equal(t, models.RiskLow, rec.RiskLevel)
}
