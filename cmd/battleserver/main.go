// Package main provides the battle server binary: it loads the content
// catalog, connects player persistence, and runs the battle engine.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/tent58518-cell/RPGgo/internal/config"
	"github.com/tent58518-cell/RPGgo/internal/game/battle"
	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/dice"
	"github.com/tent58518-cell/RPGgo/internal/game/reward"
	"github.com/tent58518-cell/RPGgo/internal/observability"
	"github.com/tent58518-cell/RPGgo/internal/server"
	"github.com/tent58518-cell/RPGgo/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load content catalog
	catStart := time.Now()
	cat, err := catalog.Load(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("items", cat.ItemCount()),
		zap.Int("monsters", cat.MonsterCount()),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	// Connect to PostgreSQL for player persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	playerRepo := postgres.NewPlayerRepository(pool.DB(), cat)

	// Wire the battle engine and reward reconciler
	src := dice.NewLoggedSource(dice.NewCryptoSource(), logger)
	reconciler := reward.NewReconciler(playerRepo, cat, src, logger)
	engine := battle.NewEngine(reconciler, src, cfg.Battle.TurnTimeout, logger)

	logger.Info("battle server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Duration("turn_timeout", cfg.Battle.TurnTimeout),
	)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("battles", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(time.Minute)
				logger.Info("battle engine status", zap.Int("active_sessions", engine.ActiveCount()))
			}
		},
		StopFn: func() {},
	})

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
