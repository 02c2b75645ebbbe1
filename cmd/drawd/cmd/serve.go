package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gangov/vrf-poker-activity/internal/app"
)

const (
	flagAddr        = "addr"
	flagTransport   = "transport"
	flagMetricsAddr = "metrics-addr"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transcript audit service as an ABCI application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(flagLogLevel))
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			a := app.New(
				app.WithLogger(logger.With("module", "app")),
				app.WithMetrics(app.NewMetrics(reg)),
			)

			srv, err := server.NewServer(v.GetString(flagAddr), v.GetString(flagTransport), a)
			if err != nil {
				return fmt.Errorf("create abci server: %w", err)
			}
			srv.SetLogger(logger.With("module", "abci-server"))
			if err := srv.Start(); err != nil {
				return fmt.Errorf("abci server start: %w", err)
			}
			defer func() { _ = srv.Stop() }()

			if addr := v.GetString(flagMetricsAddr); addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				metricsSrv := &http.Server{Addr: addr, Handler: mux}
				go func() {
					logger.Info("hosting metrics", "addr", addr)
					if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server", "err", err)
					}
				}()
				defer func() { _ = metricsSrv.Close() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().String(flagAddr, "tcp://127.0.0.1:26658", "ABCI listen address")
	cmd.Flags().String(flagTransport, "socket", "ABCI transport (socket|grpc)")
	cmd.Flags().String(flagMetricsAddr, "", "serve prometheus metrics on this address (disabled if empty)")
	return cmd
}
