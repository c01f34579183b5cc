// Package service wires the respawn module to its config file, entrance
// store and metrics endpoint for the lifetime of a host process.
//
// The host embeds it: New at startup, Module() for hook dispatch from its
// event loop, Run until shutdown. Stored entrances are only rewritten after
// the host has dispatched player hooks, so a Run without traffic keeps them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dungeonrespawn/internal/config"
	"github.com/udisondev/dungeonrespawn/internal/metrics"
	"github.com/udisondev/dungeonrespawn/internal/respawn"
)

// ShutdownTimeout bounds the final save and the metrics server shutdown.
const ShutdownTimeout = 10 * time.Second

// Service owns one respawn.Module and its collaborators.
type Service struct {
	configPath string
	cfg        config.Config

	module     *respawn.Module
	metrics    *metrics.Collector
	closeStore func()
}

// New loads config, opens the store and performs the initial entrance load.
// An unreachable store is logged and the module runs from memory only.
func New(ctx context.Context, configPath string, cfg config.Config) *Service {
	collector := metrics.NewCollector()

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("entrance store unavailable, running in memory", "err", err)
		collector.StoreError("open")
		store = nil
	}

	module := respawn.NewModule(store, collector)
	if err := module.OnConfigLoad(ctx, cfg.DungeonRespawn, false); err != nil {
		slog.Warn("starting with empty entrance registry", "err", err)
	}

	slog.Info("dungeon respawn ready",
		"enable", cfg.DungeonRespawn.Enable,
		"debug", cfg.DungeonRespawn.Debug,
		"respawnHealthPct", cfg.DungeonRespawn.RespawnHealthPct)

	return &Service{
		configPath: configPath,
		cfg:        cfg,
		module:     module,
		metrics:    collector,
		closeStore: closeStore,
	}
}

// Module returns the module the host dispatches hooks to.
func (s *Service) Module() *respawn.Module {
	return s.module
}

// Metrics returns the Prometheus collector.
func (s *Service) Metrics() *metrics.Collector {
	return s.metrics
}

// Reload re-reads the config file and re-applies module options. On a bad
// config the current options stay in effect.
func (s *Service) Reload(ctx context.Context) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	if err := s.module.OnConfigLoad(ctx, cfg.DungeonRespawn, true); err != nil {
		slog.Warn("reload continued without stored entrances", "err", err)
	}
	s.cfg = cfg
	slog.Info("dungeon respawn config reloaded",
		"enable", cfg.DungeonRespawn.Enable,
		"debug", cfg.DungeonRespawn.Debug,
		"respawnHealthPct", cfg.DungeonRespawn.RespawnHealthPct)
	return nil
}

// Run serves metrics and watches the config file until ctx is cancelled,
// then flushes entrances and closes the store.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if addr := s.cfg.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			slog.Info("metrics listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if _, err := os.Stat(s.configPath); err == nil {
		g.Go(func() error {
			return config.Watch(gctx, s.configPath, func() {
				if err := s.Reload(gctx); err != nil {
					slog.Error("config reload failed", "err", err)
				}
			})
		})
	} else {
		slog.Info("config file not found, reload watcher disabled", "path", s.configPath)
	}

	runErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.module.OnShutdown(shutdownCtx); err != nil {
		slog.Error("final entrance save failed", "err", err)
	}
	s.closeStore()
	slog.Info("dungeon respawn stopped")

	return runErr
}
