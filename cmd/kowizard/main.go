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

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"

	"github.com/jmanzanog/ko-wizard/internal/application"
	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/config"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata/yfinance"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/persistence/memory"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/jmanzanog/ko-wizard/internal/interfaces/http"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeDatabase opens the configured instrument store and runs migrations
func initializeDatabase(cfg *config.Config) (domain.InstrumentRepository, error) {
	if cfg.DBDriver == config.DBDriverMemory {
		slog.Warn("Using in-memory instrument store, data is lost on restart")
		return memory.NewInstrumentRepository(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	repo := sqldb.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close() // Close connection if migration fails
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// createQuoteCache returns nil when live quotes are disabled
func createQuoteCache(cfg *config.Config, repo domain.InstrumentRepository) *application.QuoteCache {
	switch cfg.QuoteProvider {
	case config.QuoteProviderYFinance:
		return application.NewQuoteCache(yfinance.NewClientWithBaseURL(cfg.YFinanceBaseURL), repo)
	default:
		return nil
	}
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, service *application.InstrumentService) *http.Server {
	router := gin.Default()
	handler := httpHandler.NewHandler(service)
	httpHandler.SetupRoutes(router, handler)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// App wraps the application components for easier testing
type App struct {
	Server        *http.Server
	QuoteUpdater  *application.QuoteUpdater
	CancelContext context.CancelFunc
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if a.QuoteUpdater != nil {
		a.QuoteUpdater.Stop()
	}
	a.CancelContext()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	return nil
}

// run contains the main application logic without os.Exit calls
func run() error {
	setupLogger(slog.LevelInfo)

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.SlogLevel())
	domain.SetNumberLocale(cfg.NumberLocale())
	slog.Info("Configuration loaded",
		"db_driver", cfg.DBDriver,
		"quote_provider", cfg.QuoteProvider,
		"number_locale", cfg.NumberLocaleTag.String())

	repo, err := initializeDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &App{CancelContext: cancel}

	var service *application.InstrumentService
	if cache := createQuoteCache(cfg, repo); cache != nil {
		service = application.NewInstrumentService(repo, cache)
		app.QuoteUpdater = application.NewQuoteUpdater(cache, cfg.QuoteRefreshInterval)
		go app.QuoteUpdater.Start(ctx)
	} else {
		service = application.NewInstrumentService(repo, nil)
	}

	app.Server = buildServer(cfg, service)

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
