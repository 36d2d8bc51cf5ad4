package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"procura/internal/scenario"
)

var (
	flagScenarioDir string
	flagScenarioID  string
	flagJSONOutput  bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the engine against reproducible procurement scenarios",
	Long: `evaluate executes the built-in scenario catalog (plus any YAML
scenarios from --dir) against a deterministic, oracle-free engine and
reports whether each scenario's expectations held.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&flagScenarioDir, "dir", "", "Directory of additional *.yaml scenarios")
	evaluateCmd.Flags().StringVar(&flagScenarioID, "scenario", "", "Run a single scenario by ID")
	evaluateCmd.Flags().BoolVar(&flagJSONOutput, "json", false, "Print full results as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	catalog := scenario.NewCatalog()
	if flagScenarioDir != "" {
		if err := catalog.LoadDir(flagScenarioDir); err != nil {
			return err
		}
	}

	runner := scenario.NewRunner(log)

	var results []scenario.Result
	if flagScenarioID != "" {
		s, ok := catalog.Get(flagScenarioID)
		if !ok {
			return fmt.Errorf("unknown scenario %q", flagScenarioID)
		}
		results = []scenario.Result{runner.Run(cmd.Context(), s)}
	} else {
		results = runner.RunAll(cmd.Context(), catalog)
	}

	if flagJSONOutput {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		for _, r := range results {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Printf("%-4s %-20s suggestions=%d\n", status, r.ID, len(r.Envelope.Suggestions))
			for _, f := range r.Failures {
				fmt.Printf("       %s\n", f)
			}
		}
	}

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}
