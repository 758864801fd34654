package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"earnings/internal/analytics"
	"earnings/internal/backup"
	"earnings/internal/cache"
	"earnings/internal/cli"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/export"
	"earnings/internal/goals"
	apphttp "earnings/internal/http"
	"earnings/internal/log"
	"earnings/internal/notify"
	"earnings/internal/services"
	gsheet "earnings/internal/sheets/google"
)

func main() {
	cfg, logger := cli.Bootstrap("earnings server", os.Stdout)

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	store, be, err := cli.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer cli.Close(logger, be)

	notifier := notificationsFor(store, logger, be.Notifier)
	repo := earnings.NewRepository(store, earnings.WithLogger(logger))
	goalEngine := goals.NewEngine(store, goals.WithNotifier(notifier), goals.WithLogger(logger))
	dashboard := services.NewDashboard(store, cfg.DashboardCacheTTL)

	caches := cache.NewManager(logger)
	caches.Register(dashboard.Memo())
	caches.StartCleanup(5 * time.Minute)
	defer caches.Stop()

	var mirror *services.SheetsSync
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		mirror = services.NewSheetsSync(store, client, services.SheetsSyncConfig{
			PollInterval: cfg.SheetsSyncInterval,
			MaxRetries:   cfg.SheetsSyncRetries,
		}, logger)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:     store,
		Earnings:  repo,
		Analytics: analytics.NewEngine(store),
		Goals:     goalEngine,
		Service:   services.NewEarningService(store, repo, goalEngine, notifier, logger),
		Dashboard: dashboard,
		Backup:    backup.NewService(store, logger),
		Export:    export.NewService(store, logger),
	}, logger)
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if mirror != nil {
			if err := mirror.Stop(ctx); err != nil {
				logger.Error("Sheets sync shutdown error", log.FieldError, err)
			}
		}
	})

	if mirror != nil {
		if err := mirror.Start(ctx); err != nil {
			logger.Error("Failed to start sheets sync", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	}

	logger.Info("Listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}

// notificationsFor logs every notification and publishes it to the broker
// when one is configured, as long as the user has notifications enabled.
func notificationsFor(store *entities.Store, logger *log.Logger, broker notify.Notifier) notify.Notifier {
	sinks := notify.Fanout{notify.NewLogger(logger)}
	if broker != nil {
		sinks = append(sinks, broker)
	}
	return notify.Gate(sinks, func(ctx context.Context) (bool, error) {
		st, err := store.Settings(ctx)
		return st.Notifications, err
	})
}
