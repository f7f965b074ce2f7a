package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trendpulse/trendpulse/internal/alerts"
	"github.com/trendpulse/trendpulse/internal/api"
	"github.com/trendpulse/trendpulse/internal/config"
	"github.com/trendpulse/trendpulse/internal/heal"
	"github.com/trendpulse/trendpulse/internal/source"
	"github.com/trendpulse/trendpulse/internal/trending"
	"github.com/trendpulse/trendpulse/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "trendpulse",
		Short:        "Aggregate trending artefacts from multiple providers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	return cmd
}

func run(parent context.Context, configPath string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("trendpulse starting", "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		return err
	}
	slog.Info("config loaded",
		"http_addr", cfg.Server.HTTPAddr,
		"sources", len(cfg.Trending.Sources),
		"default_limit", cfg.Trending.DefaultLimit,
		"refresh_interval", cfg.Trending.RefreshInterval,
	)

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Wire adapters from config. Unknown source names are skipped with a
	// warning, not a startup failure.
	var sources []trending.Source
	for _, src := range cfg.Trending.Sources {
		s, err := source.New(src, cfg.Trending.HTTPTimeout)
		if err != nil {
			slog.Warn("skipping unknown trending source", "name", src.Name, "err", err)
			continue
		}
		sources = append(sources, s)
		slog.Info("registered source", "name", s.Name(), "weight", s.Weight())
	}
	if len(sources) == 0 {
		slog.Warn("no sources configured; trending results will be empty")
	}

	engine := trending.NewEngine(sources, cfg.Trending.DefaultLimit, cfg.Trending.RefreshInterval)

	// Prime the cache before serving so the first caller gets data, then
	// keep it warm with the background loop.
	slog.Info("priming trending cache")
	engine.FetchTrending(ctx, 0, true)
	engine.RegisterBackgroundRefresh()
	defer engine.Shutdown()

	// Watch config file for hot-reload. Weight or source changes require a
	// restart; the watcher surfaces edits in the logs.
	go func() {
		if err := config.Watch(ctx, configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded; restart to apply source changes",
				"sources", len(updated.Trending.Sources))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	alertEngine := alerts.New(cfg.Alerts, engine.SourceHealth)
	go alertEngine.Run(ctx)

	if cfg.Heal.Enabled {
		monitor := heal.NewMonitor(cfg.Heal.Interval, engine)
		go monitor.Run(ctx)
	}

	hub := ws.New(engine, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api.New(engine, alertEngine, cfg.Server.Auth))
	mux.Handle("/ws", hub)

	srv := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		slog.Error("http server failed", "err", err)
		return err
	}

	slog.Info("trendpulse shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http server shutdown", "err", err)
	}
	return nil
}
