package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/theory"
)

var scenarioPath string

// ScenarioResult pairs a scenario's final snapshot with its closed-form
// reference. HasReference is false for partitioned kinds and unstable loads.
type ScenarioResult struct {
	Name         string
	Snapshot     sim.Snapshot
	Reference    theory.Metrics
	HasReference bool
}

// RunScenarios runs every scenario in f to its horizon.
func RunScenarios(f ScenarioFile) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, 0, len(f.Scenarios))
	for i, sc := range f.Scenarios {
		cfg := f.Config(i)
		s, _, err := sim.NewSimulator(cfg)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		s.Run()

		res := ScenarioResult{Name: sc.Name, Snapshot: s.State()}
		if ref, err := theory.ForConfig(cfg); err == nil {
			res.Reference, res.HasReference = ref, true
		} else {
			logrus.Debugf("Scenario %q has no reference: %v", sc.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// PrintScenarioTable writes one row per scenario. Closed-form values appear
// in parentheses where available.
func PrintScenarioTable(w io.Writer, results []ScenarioResult) {
	fmt.Fprintf(w, "%-10s %-6s %-18s %-18s %-18s %-18s %-18s %8s\n",
		"scenario", "kind", "rho", "L", "Lq", "W", "Wq", "served")
	for _, r := range results {
		s := r.Snapshot
		cell := func(measured, ref float64) string {
			if !r.HasReference {
				return fmt.Sprintf("%.4f", measured)
			}
			return fmt.Sprintf("%.4f (%.4f)", measured, ref)
		}
		fmt.Fprintf(w, "%-10s %-6s %-18s %-18s %-18s %-18s %-18s %8d\n",
			r.Name, s.Kind,
			cell(s.Rho, r.Reference.Rho),
			cell(s.LAvg, r.Reference.L),
			cell(s.LqAvg, r.Reference.Lq),
			cell(s.WAvg, r.Reference.W),
			cell(s.WqAvg, r.Reference.Wq),
			s.Served)
	}
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a set of scenarios and compare them side by side",
	Long:  "Run every scenario of a YAML scenario file (or the four reference scenarios) and print measured metrics next to closed-form values.",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		f := DefaultScenarios()
		if scenarioPath != "" {
			var err error
			if f, err = LoadScenarios(scenarioPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		results, err := RunScenarios(f)
		if err != nil {
			logrus.Fatalf("Compare failed: %v", err)
		}
		PrintScenarioTable(cmd.OutOrStdout(), results)
	},
}

func init() {
	compareCmd.Flags().StringVar(&scenarioPath, "config", "", "Path to a scenario YAML file (default: built-in reference scenarios)")

	rootCmd.AddCommand(compareCmd)
}
