// Package reasoning wraps the external text-generation oracle that
// picks a supplier for each material. The oracle is untrusted: calls
// are bounded by a timeout, retried within a small budget, and on
// exhaustion the client degrades to the deterministic supplier ranking.
// Recommend never returns an error; callers cannot tell a degraded
// recommendation from an oracle-backed one, and must not need to.
package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"procura/internal/matching"
	"procura/internal/models"
	"procura/internal/monitoring"
)

// Oracle call budget defaults, matching the production tuning of the
// procurement service this engine backs.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 2
	DefaultBackoff    = time.Second
)

// Fulfillment-rate thresholds for the fallback risk grade.
const (
	lowRiskFulfillment    = 95
	mediumRiskFulfillment = 85
)

// defaultReasoning stands in when the oracle names a supplier but
// offers no explanation.
const defaultReasoning = "Recommended based on overall supplier performance."

// Recommendation is the client's single output shape: a supplier pick
// with reasoning and a risk grade. It is always fully populated.
type Recommendation struct {
	SupplierName string           `json:"supplier"`
	Reasoning    string           `json:"reasoning"`
	RiskLevel    models.RiskLevel `json:"riskLevel"`
}

// Client calls the oracle with retry and timeout bounds and owns the
// deterministic fallback path.
type Client struct {
	provider   Provider
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	metrics    *monitoring.Metrics
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds each individual oracle call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRetries sets how many times a failed call is retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the base delay between attempts; attempt n waits
// n times this value.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *monitoring.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithSleep replaces the backoff sleeper; tests use this to avoid
// real delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient creates a reasoning client over the given oracle provider.
// A nil provider is allowed and forces every recommendation down the
// fallback path.
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:   provider,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
		sleep:      sleepContext,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommend picks a supplier for the material from the eligible set.
// eligible must be non-empty and ranked best-first (the matcher's
// output); the first entry anchors the fallback. Recommend never
// returns an error: any oracle failure, timeout, or malformed response
// degrades to the deterministic ranking.
func (c *Client) Recommend(ctx context.Context, material models.Material, eligible []models.Supplier, usage []models.UsageLogEntry) Recommendation {
	if len(eligible) == 0 {
		return Recommendation{}
	}
	if c.provider == nil {
		c.recordFallback(material, "no oracle configured")
		return c.fallback(eligible)
	}

	prompt := BuildRecommendationPrompt(material, eligible, usage)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.backoff*time.Duration(attempt)); err != nil {
				c.recordFallback(material, "deadline reached during backoff")
				return c.fallback(eligible)
			}
		}

		text, err := c.complete(ctx, prompt)
		if err != nil {
			if IsPermissionError(err) {
				c.metrics.RecordOracleAttempt(monitoring.OutcomePermission)
				c.log.Warn().Err(err).Str("material", material.ID).
					Msg("oracle rejected credentials, not retrying")
				break
			}
			c.metrics.RecordOracleAttempt(monitoring.OutcomeError)
			c.log.Debug().Err(err).Str("material", material.ID).Int("attempt", attempt).
				Msg("oracle call failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		payload, ok := parseRecommendation(text)
		if !ok {
			c.metrics.RecordOracleAttempt(monitoring.OutcomeMalformed)
			c.log.Debug().Str("material", material.ID).Int("attempt", attempt).
				Msg("oracle response had no usable JSON object")
			continue
		}

		c.metrics.RecordOracleAttempt(monitoring.OutcomeSuccess)
		return normalize(payload)
	}

	c.recordFallback(material, "oracle attempts exhausted")
	return c.fallback(eligible)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.provider.Complete(callCtx, prompt)
}

// fallback produces a recommendation from the deterministic ranking
// alone. The reasoning string cites the numbers the ranking weighed so
// the output reads the same as an oracle answer.
func (c *Client) fallback(eligible []models.Supplier) Recommendation {
	best, _ := matching.Best(eligible)
	return Recommendation{
		SupplierName: best.Name,
		Reasoning: fmt.Sprintf(
			"Selected based on optimal balance of rating (%.1f/5), fulfillment rate (%.0f%%), and delivery time (%d days).",
			best.Rating, best.FulfillmentRate, best.DeliveryTime),
		RiskLevel: RiskFromFulfillment(best.FulfillmentRate),
	}
}

func (c *Client) recordFallback(material models.Material, reason string) {
	c.metrics.RecordFallback()
	c.log.Debug().Str("material", material.ID).Str("reason", reason).
		Msg("using deterministic supplier recommendation")
}

// RiskFromFulfillment grades supply risk by the supplier's historical
// fulfillment rate.
func RiskFromFulfillment(rate float64) models.RiskLevel {
	switch {
	case rate > lowRiskFulfillment:
		return models.RiskLow
	case rate > mediumRiskFulfillment:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// normalize fills the optional payload fields with safe placeholders.
func normalize(payload recommendationPayload) Recommendation {
	rec := Recommendation{
		SupplierName: payload.Supplier,
		Reasoning:    strings.TrimSpace(payload.Reasoning),
		RiskLevel:    models.RiskLevel(strings.ToLower(strings.TrimSpace(payload.RiskLevel))),
	}
	if rec.Reasoning == "" {
		rec.Reasoning = defaultReasoning
	}
	switch rec.RiskLevel {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		rec.RiskLevel = models.RiskMedium
	}
	return rec
}

// ResolveSupplier maps the recommendation's supplier name back onto the
// eligible set, falling back to the top-ranked supplier when the oracle
// named someone outside it.
func ResolveSupplier(rec Recommendation, eligible []models.Supplier) models.Supplier {
	if s, ok := matching.ByName(eligible, rec.SupplierName); ok {
		return s
	}
	best, _ := matching.Best(eligible)
	return best
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
