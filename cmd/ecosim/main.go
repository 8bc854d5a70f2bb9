package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zeusync/ecosim/internal/config"
	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/system"
	"github.com/zeusync/ecosim/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration (defaults are used when empty)")
	ticks := flag.Int("ticks", -1, "number of ticks to run, 0 runs until interrupted (overrides world.ticks)")
	serve := flag.Bool("serve", false, "serve the observer feed (overrides server.enabled)")
	flag.Parse()

	if err := run(*configPath, *ticks, *serve); err != nil {
		fmt.Fprintln(os.Stderr, "ecosim:", err)
		os.Exit(1)
	}
}

func run(configPath string, ticks int, serve bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if ticks >= 0 {
		cfg.World.Ticks = ticks
	}
	if serve {
		cfg.Server.Enabled = true
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	logger := app.Logger
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		log.String("config", configPath),
		log.String("seed", cfg.Seed),
		log.Int64("seed_value", cfg.SeedValue()),
		log.Int("bodies", cfg.World.Bodies),
		log.Int("hazard_kinds", app.World.Hazards().Catalog().Len()))

	if _, err = app.World.Spawn(cfg.World.Bodies, cfg.World.Spawn()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Enabled {
		if err = app.Feed.Start(ctx); err != nil {
			return fmt.Errorf("start feed: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.Feed.Stop(shutdownCtx); err != nil {
				logger.Warn("Feed shutdown failed", log.Error(err))
			}
		}()
	}

	summaryEvery := uint64(max(1000/cfg.World.TickMs, 1))
	onTick := func(w *system.World) {
		if cfg.Server.Enabled {
			app.Feed.Publish(w.Snapshot())
		}
		if w.Tick()%summaryEvery == 0 {
			stats := w.Hazards().Stats()
			last := w.LastTick()
			logger.Info("Simulation summary",
				log.Uint64("tick", w.Tick()),
				log.Float64("sim_time_ms", w.Elapsed()),
				log.Int("collisions", last.Collisions),
				log.Int("active_hazards", stats.Active),
				log.Int("hazards_triggered", stats.Triggered),
				log.Duration("avg_tick", w.Manager().GetMetrics().AverageUpdateTime))
		}
	}

	err = app.World.Run(ctx, cfg.World.TickInterval(), cfg.World.Ticks, onTick)
	if errors.Is(err, context.Canceled) {
		logger.Info("Interrupted, shutting down", log.Uint64("tick", app.World.Tick()))
		return nil
	}
	return err
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Decode(strings.NewReader(""))
	}
	return config.Load(path)
}
