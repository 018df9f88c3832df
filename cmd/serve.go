package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queue-sim/queue-sim/api"
)

var (
	serveAddr        string
	serveMaxHorizon  float64
	serveMaxArrivals float64
	serveAnyOrigin   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations, reference values and snapshot streams over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		handler := api.NewServer(api.Limits{
			MaxHorizon:     serveMaxHorizon,
			MaxArrivals:    serveMaxArrivals,
			AllowAnyOrigin: serveAnyOrigin,
		})
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("Shutdown: %v", err)
			}
		}()

		logrus.Infof("Listening on %s", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
		logrus.Info("Server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "Address to listen on")
	serveCmd.Flags().Float64Var(&serveMaxHorizon, "max-horizon", api.DefaultMaxHorizon, "Largest horizon a single request may simulate")
	serveCmd.Flags().Float64Var(&serveMaxArrivals, "max-arrivals", api.DefaultMaxArrivals, "Largest expected job count (lambda*horizon) a single request may simulate")
	serveCmd.Flags().BoolVar(&serveAnyOrigin, "allow-any-origin", false, "Accept websocket streams from pages on any origin")

	rootCmd.AddCommand(serveCmd)
}
