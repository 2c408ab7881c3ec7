package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tictactoe/config"
	"tictactoe/searcher"
)

var (
	configPath  string
	logLevel    string
	metricsAddr string

	cfg         config.Config
	promMetrics *searcher.PromMetrics
)

var rootCmd = &cobra.Command{
	Use:           "tictactoe",
	Short:         "Tic-tac-toe against a Monte Carlo Tree Search AI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		if cmd.Flags().Changed("metrics-addr") {
			loaded.Metrics.Addr = metricsAddr
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		setupLogging(cfg.Log)
		if cfg.Metrics.Addr != "" {
			serveMetrics(cmd.Context(), cfg.Metrics.Addr)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(playCmd, arenaCmd, genCSVCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func setupLogging(cfg config.LogConfig) {
	zerolog.SetGlobalLevel(cfg.ZerologLevel())
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// serveMetrics exposes the search metrics until ctx ends.
func serveMetrics(ctx context.Context, addr string) {
	reg := prometheus.NewRegistry()
	promMetrics = searcher.NewPromMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Msgf("serving metrics on %s/metrics", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()
}

// searchOptions adds the metrics collector to a search configuration when metrics are served.
func searchOptions(search searcher.Config) []searcher.Option {
	options := []searcher.Option{searcher.WithConfig(search)}
	if promMetrics != nil {
		options = append(options, searcher.WithMetrics(promMetrics.NewCollector()))
	}
	return options
}
