// Command seed populates the catalog with a fixed set of products. It goes
// through the product service so categories are resolved the same way the
// API resolves them, and it can be run repeatedly: products that already
// exist are skipped.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utafrali/product-catalog/internal/config"
	"github.com/utafrali/product-catalog/internal/repository/postgres"
	"github.com/utafrali/product-catalog/internal/service"
	"github.com/utafrali/product-catalog/migrations"
	"github.com/utafrali/product-catalog/pkg/database"
	"github.com/utafrali/product-catalog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("product-catalog-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	defer connectCancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(connectCtx, &pgCfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(connectCtx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := service.NewProductService(
		postgres.NewRepositories(pool),
		postgres.NewTxManager(pool, log),
		log,
	)

	res, err := seed(ctx, svc, catalog(), log)
	if err != nil {
		log.Error("seed aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seed complete",
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
	)
}
