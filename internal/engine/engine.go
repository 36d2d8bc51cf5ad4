// Package engine orchestrates purchase-order suggestion batches: it
// matches suppliers, consults the reasoning client, plans quantities,
// scores priorities, and assembles the sorted result envelope.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"procura/internal/matching"
	"procura/internal/models"
	"procura/internal/monitoring"
	"procura/internal/planning"
	"procura/internal/reasoning"
	"procura/internal/scoring"
)

// DefaultConcurrency bounds concurrent reasoning calls so a batch
// respects the oracle's rate limits.
const DefaultConcurrency = 3

// validityWindow is how long a generated batch is considered current.
const validityWindow = 24 * time.Hour

// Recommender is the engine's view of the reasoning client.
type Recommender interface {
	Recommend(ctx context.Context, material models.Material, eligible []models.Supplier, usage []models.UsageLogEntry) reasoning.Recommendation
}

// Engine generates purchase-order suggestions for one batch of
// low-stock materials. It holds no mutable state between batches and is
// safe for concurrent use.
type Engine struct {
	recommender Recommender
	planner     *planning.Planner
	concurrency int64
	now         func() time.Time
	newID       func() string
	metrics     *monitoring.Metrics
	monitor     *monitoring.Monitor
	log         zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency caps how many materials are processed at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = int64(n)
		}
	}
}

// WithClock injects the time source used for delivery dates, staleness
// scoring, and envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator injects the request-ID source. IDs are generated per
// batch, never read from ambient global state.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMonitor attaches the in-memory batch snapshot monitor.
func WithMonitor(m *monitoring.Monitor) Option {
	return func(e *Engine) { e.monitor = m }
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithPlanner replaces the default quantity planner.
func WithPlanner(p *planning.Planner) Option {
	return func(e *Engine) {
		if p != nil {
			e.planner = p
		}
	}
}

// New creates a suggestion engine around a reasoning client.
func New(recommender Recommender, opts ...Option) *Engine {
	e := &Engine{
		recommender: recommender,
		concurrency: DefaultConcurrency,
		now:         time.Now,
		newID:       uuid.NewString,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.planner == nil {
		e.planner = planning.NewPlanner(planning.DefaultNominalUsage, e.log)
	}
	return e
}

// Generate runs one suggestion batch over the given snapshot of
// low-stock materials, suppliers, and usage history. It always returns
// a well-formed envelope: success is false only when the batch could
// not start at all. If the context deadline expires mid-batch, the
// suggestions assembled so far are returned with Partial set.
func (e *Engine) Generate(ctx context.Context, materials []models.Material, suppliers []models.Supplier, usage []models.UsageLogEntry) models.ResultEnvelope {
	start := e.now()
	requestID := e.newID()
	log := e.log.With().Str("request_id", requestID).Logger()

	active := activeSuppliers(suppliers)

	if len(materials) == 0 {
		log.Info().Msg("no low-stock materials, nothing to suggest")
		return e.envelope(requestID, start, nil, 0, len(active), true, false,
			"No low-stock materials require reordering.")
	}
	if len(active) == 0 {
		log.Warn().Int("materials", len(materials)).Msg("no active suppliers available")
		return e.envelope(requestID, start, nil, len(materials), 0, false, false,
			"No active suppliers available to fulfill purchase orders.")
	}

	results := make([]*models.Suggestion, len(materials))
	sem := semaphore.NewWeighted(e.concurrency)
	var wg sync.WaitGroup

	partial := false
	for i, material := range materials {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Deadline hit: keep what is already assembled.
			partial = true
			break
		}
		wg.Add(1)
		go func(i int, material models.Material) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = e.processMaterial(ctx, log, material, active, usage)
		}(i, material)
	}
	wg.Wait()

	if !partial && ctx.Err() != nil {
		partial = true
	}

	suggestions := make([]models.Suggestion, 0, len(materials))
	for _, r := range results {
		if r != nil {
			suggestions = append(suggestions, *r)
		}
	}
	skipped := len(materials) - len(suggestions)

	sortSuggestions(suggestions)

	message := "AI-powered purchase order suggestions generated."
	if partial {
		message = "Deadline reached; returning partially completed suggestions."
	}

	env := e.envelope(requestID, start, suggestions, len(materials), len(active), true, partial, message)

	elapsed := e.now().Sub(start)
	e.metrics.RecordBatch(elapsed.Seconds(), len(suggestions), skipped)
	if e.monitor != nil {
		e.monitor.RecordBatchResult(requestID, len(suggestions), skipped, elapsed, partial)
	}
	log.Info().
		Int("suggestions", len(suggestions)).
		Int("skipped", skipped).
		Bool("partial", partial).
		Dur("elapsed", elapsed).
		Msg("suggestion batch complete")

	return env
}

// processMaterial builds one suggestion, or nil when no supplier is
// eligible. Absence of a supplier is a data-quality condition, not an
// engine failure, so the material is skipped silently.
func (e *Engine) processMaterial(ctx context.Context, log zerolog.Logger, material models.Material, suppliers []models.Supplier, usage []models.UsageLogEntry) *models.Suggestion {
	eligible := matching.EligibleSuppliers(material, suppliers)
	if len(eligible) == 0 {
		log.Debug().Str("material", material.ID).Msg("no eligible suppliers, skipping")
		return nil
	}

	rec := e.recommender.Recommend(ctx, material, eligible, usage)
	supplier := reasoning.ResolveSupplier(rec, eligible)

	quantity := e.planner.SuggestedQuantity(material)
	now := e.now()
	avgUsage := material.EffectiveAvgUsage(e.planner.NominalUsage())
	priority := scoring.Priority(material, material.StockQty, material.ReorderLevel, avgUsage, now)
	urgency := scoring.UrgencyFor(material.StockQty, material.ReorderLevel)

	unitPrice := resolveUnitPrice(supplier, material)
	total := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(unitPrice))

	return &models.Suggestion{
		MaterialID:        material.ID,
		MaterialName:      material.Name,
		Category:          material.Category,
		CurrentStock:      material.StockQty,
		ReorderLevel:      material.ReorderLevel,
		SuggestedQuantity: quantity,
		Unit:              material.EffectiveUnit(),
		SupplierID:        supplier.ID,
		SupplierName:      supplier.Name,
		UnitPrice:         unitPrice,
		TotalAmount:       total.InexactFloat64(),
		Currency:          material.EffectiveCurrency(),
		DeliveryDate:      now.AddDate(0, 0, supplier.DeliveryTime).Format("2006-01-02"),
		DeliveryTime:      supplier.DeliveryTime,
		SupplierRating:    supplier.Rating,
		FulfillmentRate:   supplier.FulfillmentRate,
		AIReasoning:       rec.Reasoning,
		RiskLevel:         rec.RiskLevel,
		Priority:          priority,
		Urgency:           urgency,
	}
}

func (e *Engine) envelope(requestID string, start time.Time, suggestions []models.Suggestion, lowStock, activeCount int, success, partial bool, message string) models.ResultEnvelope {
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	return models.ResultEnvelope{
		Success:     success,
		Message:     message,
		Partial:     partial,
		Suggestions: suggestions,
		Summary:     summarize(suggestions),
		Metadata: &models.Metadata{
			RequestID:           requestID,
			LowStockCount:       lowStock,
			ActiveSupplierCount: activeCount,
			SkippedCount:        lowStock - len(suggestions),
			GeneratedAt:         start,
			ValidUntil:          start.Add(validityWindow),
		},
	}
}

// sortSuggestions orders by urgency tier first, then priority score
// descending. The sort is stable so identical inputs always produce
// identical output order.
func sortSuggestions(suggestions []models.Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Urgency != suggestions[j].Urgency {
			return suggestions[i].Urgency.Rank() > suggestions[j].Urgency.Rank()
		}
		return suggestions[i].Priority > suggestions[j].Priority
	})
}

func summarize(suggestions []models.Suggestion) models.Summary {
	summary := models.Summary{TotalSuggestions: len(suggestions)}
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(decimal.NewFromFloat(s.TotalAmount))
		switch s.Urgency {
		case models.UrgencyHigh:
			summary.HighUrgency++
		case models.UrgencyMedium:
			summary.MediumUrgency++
		case models.UrgencyLow:
			summary.LowUrgency++
		}
	}
	summary.TotalValue = total.InexactFloat64()
	return summary
}

func activeSuppliers(suppliers []models.Supplier) []models.Supplier {
	active := make([]models.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active
}

func resolveUnitPrice(supplier models.Supplier, material models.Material) float64 {
	if supplier.PricePerUnit != nil && *supplier.PricePerUnit > 0 {
		return *supplier.PricePerUnit
	}
	if material.UnitPrice != nil && *material.UnitPrice > 0 {
		return *material.UnitPrice
	}
	return 0
}
