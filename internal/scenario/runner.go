package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"procura/internal/engine"
	"procura/internal/models"
	"procura/internal/monitoring"
	"procura/internal/reasoning"
)

// fixedNow anchors scenario runs so staleness scoring and delivery
// dates are reproducible.
var fixedNow = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

// Result captures one scenario execution.
type Result struct {
	Scenario *Scenario              `json:"-"`
	ID       string                 `json:"scenario"`
	Passed   bool                   `json:"passed"`
	Failures []string               `json:"failures,omitempty"`
	Envelope models.ResultEnvelope  `json:"envelope"`
	Metrics  map[string]interface{} `json:"metrics"`
}

// Runner executes scenarios against a deterministic engine: the
// reasoning client is given no oracle so every recommendation follows
// the fallback ranking.
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a scenario runner.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes one scenario and evaluates its expectations.
func (r *Runner) Run(ctx context.Context, s *Scenario) Result {
	client := reasoning.NewClient(nil, reasoning.WithLogger(r.log))
	monitor := monitoring.NewMonitor()
	eng := engine.New(client,
		engine.WithLogger(r.log),
		engine.WithMonitor(monitor),
		engine.WithClock(func() time.Time { return fixedNow }),
		engine.WithIDGenerator(func() string { return "scenario-" + s.ID }),
	)

	env := eng.Generate(ctx, s.Materials, s.Suppliers, s.UsageLogs)

	failures := evaluate(s.Expect, env)

	metrics := monitor.Snapshot()
	metrics["suggestions"] = len(env.Suggestions)
	metrics["total_value"] = env.Summary.TotalValue
	metrics["high_urgency"] = env.Summary.HighUrgency
	metrics["medium_urgency"] = env.Summary.MediumUrgency
	metrics["low_urgency"] = env.Summary.LowUrgency

	return Result{
		Scenario: s,
		ID:       s.ID,
		Passed:   len(failures) == 0,
		Failures: failures,
		Envelope: env,
		Metrics:  metrics,
	}
}

// RunAll executes every scenario in the catalog.
func (r *Runner) RunAll(ctx context.Context, catalog *Catalog) []Result {
	scenarios := catalog.All()
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, r.Run(ctx, s))
	}
	return results
}

func evaluate(expect Expectation, env models.ResultEnvelope) []string {
	var failures []string

	if expect.Success != nil && env.Success != *expect.Success {
		failures = append(failures, fmt.Sprintf("success = %v, want %v", env.Success, *expect.Success))
	}
	if expect.Partial != nil && env.Partial != *expect.Partial {
		failures = append(failures, fmt.Sprintf("partial = %v, want %v", env.Partial, *expect.Partial))
	}
	if expect.SuggestionCount != nil && len(env.Suggestions) != *expect.SuggestionCount {
		failures = append(failures, fmt.Sprintf("suggestion count = %d, want %d", len(env.Suggestions), *expect.SuggestionCount))
	}
	if expect.MinSuggestions != nil && len(env.Suggestions) < *expect.MinSuggestions {
		failures = append(failures, fmt.Sprintf("suggestion count = %d, want at least %d", len(env.Suggestions), *expect.MinSuggestions))
	}
	if expect.FirstUrgency != "" || expect.FirstMaterial != "" {
		if len(env.Suggestions) == 0 {
			failures = append(failures, "expected a first suggestion but the list is empty")
		} else {
			first := env.Suggestions[0]
			if expect.FirstUrgency != "" && string(first.Urgency) != expect.FirstUrgency {
				failures = append(failures, fmt.Sprintf("first urgency = %s, want %s", first.Urgency, expect.FirstUrgency))
			}
			if expect.FirstMaterial != "" && first.MaterialID != expect.FirstMaterial {
				failures = append(failures, fmt.Sprintf("first material = %s, want %s", first.MaterialID, expect.FirstMaterial))
			}
		}
	}

	return failures
}
