package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kafanica/kafanica-backend/api/routes"
	"github.com/kafanica/kafanica-backend/internal/history"
	"github.com/kafanica/kafanica-backend/internal/inventory"
	"github.com/kafanica/kafanica-backend/internal/snapshot"
	"github.com/kafanica/kafanica-backend/internal/tabs"
	"github.com/kafanica/kafanica-backend/pkg/config"
	"github.com/kafanica/kafanica-backend/pkg/db"
	"github.com/kafanica/kafanica-backend/pkg/logger"
	"github.com/kafanica/kafanica-backend/pkg/metrics"
	"github.com/kafanica/kafanica-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	posMetrics := metrics.NewPOSMetrics(registry)

	repo := snapshot.NewRepository(dbClient.DB())
	state := snapshot.LoadState(context.Background(), repo, logg)

	saver, err := snapshot.NewSaver(snapshot.SaverParams{
		Repo:    repo,
		Logger:  logg,
		Metrics: posMetrics,
		Config:  cfg.Snapshot,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to start snapshot saver", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Initial:  state.Inventory,
		OnChange: saver.SaveInventory,
		Metrics:  posMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	historyService, err := history.NewService(history.ServiceParams{
		Initial:  state.History,
		OnChange: saver.SaveHistory,
		Metrics:  posMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	tabService, err := tabs.NewService(tabs.ServiceParams{
		Initial:  state.OpenTabs,
		Ledger:   inventoryService,
		Archive:  historyService,
		OnChange: saver.SaveOpenTabs,
		Metrics:  posMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tab service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, inventoryService, tabService, historyService, registry),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down http server", err)
		}

		// Drain pending snapshot writes so the last mutation is on disk.
		if err := saver.Close(shutdownCtx); err != nil {
			logg.Error(ctx, "snapshot writes failed during session", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
