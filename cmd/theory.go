package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/sim/theory"
)

var (
	theoryLambda  float64
	theoryMu      float64
	theoryServers int
)

// theoryCmd prints closed-form steady-state values without simulating.
var theoryCmd = &cobra.Command{
	Use:   "theory",
	Short: "Print closed-form M/M/1 or M/M/c steady-state values",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		var (
			m   theory.Metrics
			err error
		)
		if theoryServers == 1 {
			m, err = theory.MM1(theoryLambda, theoryMu)
		} else {
			m, err = theory.MMC(theoryLambda, theoryMu, theoryServers)
		}
		if err != nil {
			logrus.Fatalf("No steady state: %v", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rho = %.6f\n", m.Rho)
		fmt.Fprintf(out, "L   = %.6f\n", m.L)
		fmt.Fprintf(out, "Lq  = %.6f\n", m.Lq)
		fmt.Fprintf(out, "W   = %.6f\n", m.W)
		fmt.Fprintf(out, "Wq  = %.6f\n", m.Wq)
		if theoryServers > 1 {
			fmt.Fprintf(out, "P0  = %.6f\n", m.P0)
			fmt.Fprintf(out, "C   = %.6f\n", m.C)
		}
	},
}

func init() {
	theoryCmd.Flags().Float64Var(&theoryLambda, "lambda", 0.6, "Arrival rate")
	theoryCmd.Flags().Float64Var(&theoryMu, "mu", 2.0, "Service rate per server")
	theoryCmd.Flags().IntVar(&theoryServers, "servers", 1, "Number of servers (1 selects M/M/1)")

	rootCmd.AddCommand(theoryCmd)
}
