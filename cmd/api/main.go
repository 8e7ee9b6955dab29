package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/group"
	groupStore "github.com/MrJamesThe3rd/pocketbook/internal/group/store"
	api "github.com/MrJamesThe3rd/pocketbook/internal/http"
	groupHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/group"
	ledgerHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	reportHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/report"
	ruleHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/rule"
	userHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/user"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer/statement"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/pocketbook/internal/ledger/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/logging"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pocketbook/internal/matching/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/metrics"
	"github.com/MrJamesThe3rd/pocketbook/internal/notify"
	"github.com/MrJamesThe3rd/pocketbook/internal/reconcile"
	"github.com/MrJamesThe3rd/pocketbook/internal/report"
	reportStore "github.com/MrJamesThe3rd/pocketbook/internal/report/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/user"
	userStore "github.com/MrJamesThe3rd/pocketbook/internal/user/store"
)

const shutdownTimeout = 10 * time.Second

// drainer is what main needs from a drift publisher besides publishing.
type drainer interface {
	reconcile.Publisher
	Close() error
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	ledgers := ledgerStore.New(db)

	var (
		userService     = user.NewService(userStore.New(db), tokens)
		groupService    = group.NewService(groupStore.New(db), userService)
		ledgerService   = ledger.NewService(ledgers)
		reportService   = report.NewService(reportStore.New(db), ledgerService)
		matchingService = matching.NewService(matchingStore.New(db), ledgerService)
		importService   = importer.NewService(statement.NewParser(), ledgerService, matchingService)
	)

	m := metrics.New()

	publisher, err := newPublisher(cfg)
	if err != nil {
		slog.Error("failed to connect to message broker", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Reconcile.Enabled {
		auditor := reconcile.NewService(ledgers, publisher,
			reconcile.WithConcurrency(cfg.Reconcile.Concurrency),
			reconcile.WithRecorder(m),
		)

		go auditor.Start(ctx, cfg.Reconcile.Interval)
	}

	router := api.New(api.Handlers{
		Users:   userHandler.NewHandler(userService),
		Groups:  groupHandler.NewHandler(groupService, ledgerService),
		Ledger:  ledgerHandler.NewHandler(ledgerService, importService, cfg.Server.MaxUploadBytes),
		Rules:   ruleHandler.NewHandler(matchingService),
		Reports: reportHandler.NewHandler(reportService),
	}, api.Options{
		Authenticate: tokens.Middleware,
		Instrument:   m.Middleware,
		Metrics:      m.Handler(),
		DB:           db,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func newPublisher(cfg *config.Config) (drainer, error) {
	if cfg.AMQP.URL == "" {
		slog.Warn("AMQP_URL not set, drift alerts will only be logged")
		return notify.LogPublisher{}, nil
	}

	return notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
}
