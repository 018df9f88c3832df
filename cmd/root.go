package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/export"
	"github.com/queue-sim/queue-sim/sim/theory"
	"github.com/queue-sim/queue-sim/sim/trace"
)

var (
	// CLI flags for the queueing model
	model       string  // Topology kind: mm1, mmc, mmk1, mmkc
	lambda      float64 // Arrival rate
	mu          float64 // Service rate per server
	servers     int     // Servers per station (mmc, mmkc)
	partitions  int     // Number of partitions (mmk1, mmkc)
	horizon     float64 // Total simulated time
	warmup      float64 // Initial interval excluded from averages
	seed        int64   // Seed for the partitioned RNG
	traceLevel  string  // Routing trace level
	exportPath  string  // Where to write the run record (.json, .yaml)
	compareRun  bool    // Compare measured metrics against closed-form values
	tolerance   float64 // Relative tolerance for --compare
	logLevel    string  // Log verbosity level
	summarizeRt bool    // Print a routing trace summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-sim",
	Short: "Discrete-event simulator for M/M/1, M/M/c and partitioned queues",
}

// setLogLevel parses the --log flag and applies it.
func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)
}

// runConfig assembles the simulator configuration from the run flags.
func runConfig() sim.Config {
	return sim.Config{
		Kind:        sim.Kind(model),
		ArrivalRate: lambda,
		ServiceRate: mu,
		Servers:     servers,
		Partitions:  partitions,
		Horizon:     horizon,
		Warmup:      warmup,
		Seed:        seed,
		Trace:       trace.TraceLevel(traceLevel),
	}
}

// runCmd executes a single simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one queueing simulation to its horizon",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		if !sim.IsValidKind(model) {
			logrus.Fatalf("Unknown model %q; valid models: mm1, mmc, mmk1, mmkc", model)
		}
		if summarizeRt && traceLevel == string(trace.TraceLevelNone) {
			traceLevel = string(trace.TraceLevelRouting)
		}

		cfg := runConfig()
		s, _, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		startTime := time.Now()
		s.Run()
		logrus.Infof("Simulation finished in %s", time.Since(startTime))

		out := cmd.OutOrStdout()
		snap := s.State()
		snap.Print(out)

		if compareRun {
			printTheoryComparison(out, cfg, snap)
		}
		if summarizeRt && s.Trace.Enabled() {
			k, _ := cfg.Shape()
			printTraceSummary(out, trace.Summarize(s.Trace), k)
		}

		if exportPath != "" {
			if err := export.Write(exportPath, export.NewRecord(s)); err != nil {
				logrus.Fatalf("Export failed: %v", err)
			}
			logrus.Infof("Run exported to %s", exportPath)
		}
	},
}

// printTheoryComparison prints measured vs closed-form metrics, or explains
// why no comparison is possible for cfg.
func printTheoryComparison(out io.Writer, cfg sim.Config, snap sim.Snapshot) {
	ref, err := theory.ForConfig(cfg)
	switch {
	case errors.Is(err, theory.ErrUnstable):
		logrus.Warnf("Skipping comparison: %v", err)
		return
	case errors.Is(err, theory.ErrNoReference):
		logrus.Warnf("Skipping comparison: %v", err)
		return
	case err != nil:
		logrus.Fatalf("Reference computation failed: %v", err)
	}

	cmp := theory.Compare(theory.FromSnapshot(snap), ref, tolerance)
	fmt.Fprintln(out)
	cmp.Print(out)
	if theory.LittlesLaw(snap.LAvg, cfg.ArrivalRate, snap.WAvg, 0.1) {
		fmt.Fprintln(out, "Little's Law L = lambda*W holds within 10%")
	} else {
		fmt.Fprintf(out, "Little's Law violated: L=%.4f, lambda*W=%.4f\n", snap.LAvg, cfg.ArrivalRate*snap.WAvg)
	}
}

func printTraceSummary(out io.Writer, summary *trace.TraceSummary, k int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Routing Summary ===")
	fmt.Fprintf(out, "Decisions          : %d\n", summary.TotalDecisions)
	fmt.Fprintf(out, "Tied decisions     : %d\n", summary.TiedDecisions)
	fmt.Fprintf(out, "Non-minimal choices: %d\n", summary.NonMinimalDecisions)
	for i := 0; i < k; i++ {
		fmt.Fprintf(out, "  partition %d: %d jobs\n", i, summary.PartitionDistribution[i])
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&model, "model", string(sim.KindMM1), "Queueing model (mm1, mmc, mmk1, mmkc)")
	runCmd.Flags().Float64Var(&lambda, "lambda", 0.6, "Arrival rate")
	runCmd.Flags().Float64Var(&mu, "mu", 2.0, "Service rate per server")
	runCmd.Flags().IntVar(&servers, "servers", 1, "Servers per station (mmc, mmkc)")
	runCmd.Flags().IntVar(&partitions, "partitions", 1, "Number of partitions (mmk1, mmkc)")
	runCmd.Flags().Float64Var(&horizon, "horizon", 20000, "Total simulated time")
	runCmd.Flags().Float64Var(&warmup, "warmup", 2000, "Initial simulated time excluded from averages")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random number generation")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Routing trace level (none, routing)")
	runCmd.Flags().BoolVar(&summarizeRt, "summarize-trace", false, "Print a routing trace summary (enables routing trace)")
	runCmd.Flags().StringVar(&exportPath, "export", "", "Write the run record to this path (.json or .yaml)")
	runCmd.Flags().BoolVar(&compareRun, "compare", false, "Compare measured metrics with closed-form values")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 0.15, "Relative tolerance for --compare")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
