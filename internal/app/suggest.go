package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"procura/internal/engine"
	"procura/internal/models"
	"procura/internal/monitoring"
	"procura/internal/planning"
	"procura/internal/reasoning"
)

var (
	flagInput    string
	flagOffline  bool
	flagDeadline time.Duration
)

// snapshot is the input document the suggest command consumes: the
// three sequences the engine operates on, as JSON or YAML.
type snapshot struct {
	Materials []models.Material      `json:"materials" yaml:"materials"`
	Suppliers []models.Supplier      `json:"suppliers" yaml:"suppliers"`
	UsageLogs []models.UsageLogEntry `json:"usageLogs" yaml:"usageLogs"`
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate purchase-order suggestions from a data snapshot",
	Long: `suggest reads a snapshot file holding low-stock materials, suppliers,
and recent usage logs, runs the suggestion engine over it, and prints
the result envelope as JSON. With --offline (or without an oracle
credential) supplier picks come from the deterministic ranking.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Snapshot file (JSON or YAML, required)")
	suggestCmd.Flags().BoolVar(&flagOffline, "offline", false, "Skip the reasoning oracle and use the deterministic ranking")
	suggestCmd.Flags().DurationVar(&flagDeadline, "deadline", 0, "Overall batch deadline (0 = none)")
	_ = suggestCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	snap, err := readSnapshot(flagInput)
	if err != nil {
		return err
	}

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	monitor := monitoring.NewMonitor()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Port, log)
	}

	var provider reasoning.Provider
	if !flagOffline {
		apiKey := cfg.Oracle.APIKey()
		if apiKey == "" {
			log.Warn().Str("env", cfg.Oracle.APIKeyEnv).
				Msg("no oracle credential set, falling back to deterministic ranking")
		} else {
			provider, err = reasoning.NewOracleProvider(reasoning.OracleConfig{
				BaseURL:     cfg.Oracle.BaseURL,
				APIKey:      apiKey,
				Model:       cfg.Oracle.Model,
				Temperature: cfg.Oracle.Temperature,
				MaxTokens:   cfg.Oracle.MaxTokens,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize oracle: %w", err)
			}
		}
	}

	client := reasoning.NewClient(provider,
		reasoning.WithTimeout(cfg.Oracle.Timeout),
		reasoning.WithMaxRetries(cfg.Oracle.MaxRetries),
		reasoning.WithBackoff(cfg.Oracle.Backoff),
		reasoning.WithMetrics(metrics),
		reasoning.WithLogger(log),
	)

	eng := engine.New(client,
		engine.WithConcurrency(cfg.Engine.Concurrency),
		engine.WithPlanner(planning.NewPlanner(cfg.Engine.NominalUsage, log)),
		engine.WithMetrics(metrics),
		engine.WithMonitor(monitor),
		engine.WithLogger(log),
	)

	ctx := cmd.Context()
	if flagDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDeadline)
		defer cancel()
	}

	env := eng.Generate(ctx, snap.Materials, snap.Suppliers, snap.UsageLogs)

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	fmt.Println(string(out))

	log.Debug().Fields(monitor.Snapshot()).Msg("batch snapshot")
	return nil
}

// readSnapshot loads a snapshot document, choosing the decoder by file
// extension (YAML for .yaml/.yml, JSON otherwise).
func readSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var snap snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
		}
	}
	return &snap, nil
}
