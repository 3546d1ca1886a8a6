package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvaldivia/soltrack/internal/config"
	"github.com/mvaldivia/soltrack/internal/crypto"
	"github.com/mvaldivia/soltrack/internal/database"
	"github.com/mvaldivia/soltrack/internal/extractor"
	"github.com/mvaldivia/soltrack/internal/gmail"
	"github.com/mvaldivia/soltrack/internal/handlers"
	"github.com/mvaldivia/soltrack/internal/middleware"
	"github.com/mvaldivia/soltrack/internal/repositories"
	"github.com/mvaldivia/soltrack/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	txnRepo := repositories.NewTransactionRepository(db.DB)
	markerRepo := repositories.NewProcessedEmailRepository(db.DB)
	budgetRepo := repositories.NewBudgetRepository(db.DB)
	rateRepo := repositories.NewExchangeRateRepository(db.DB)

	// Services
	cipher, err := crypto.NewTokenCipher(cfg.Auth.TokenCipherKey)
	if err != nil {
		slog.Error("Failed to initialize token cipher", "error", err)
		os.Exit(1)
	}

	txnExtractor, err := extractor.NewGeminiExtractor(ctx, cfg.Extractor, logger)
	if err != nil {
		slog.Error("Failed to initialize extractor", "error", err)
		os.Exit(1)
	}

	metrics := services.NewPrometheusMetrics()
	sessions := services.NewSessionService(cfg.Auth)
	credentials := services.NewGmailCredentialSource(cfg.Gmail, cipher)
	emails := gmail.NewClient(cfg.Gmail, logger)
	rates := services.NewExchangeRateService(rateRepo, cfg.Rates)
	syncService := services.NewSyncService(db, userRepo, txnRepo, markerRepo, emails, txnExtractor, credentials, metrics)
	dashboardService := services.NewDashboardService(txnRepo, budgetRepo, rates)

	// Handlers
	transactionHandler := handlers.NewTransactionHandler(txnRepo)
	budgetHandler := handlers.NewBudgetHandler(budgetRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, rates)
	syncHandler := handlers.NewSyncHandler(syncService, userRepo, cfg.Sync)
	healthHandler := handlers.NewHealthCheckHandler(db.DB)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.RateLimiter())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", middleware.RequireSession(sessions))

	api.GET("/transactions", transactionHandler.ListTransactions)
	api.POST("/transactions", transactionHandler.CreateTransaction)
	api.PUT("/transactions/:transactionId", transactionHandler.UpdateTransaction)
	api.DELETE("/transactions/:transactionId", transactionHandler.DeleteTransaction)

	api.GET("/budgets", budgetHandler.ListBudgets)
	api.PUT("/budgets", budgetHandler.UpsertBudget)
	api.DELETE("/budgets/:budgetId", budgetHandler.DeleteBudget)

	api.GET("/dashboard/summary", dashboardHandler.GetSummary)
	api.GET("/dashboard/by-category", dashboardHandler.GetByCategory)
	api.GET("/dashboard/monthly-trend", dashboardHandler.GetMonthlyTrend)
	api.GET("/dashboard/budget-status", dashboardHandler.GetBudgetStatus)
	api.GET("/dashboard/exchange-rate", dashboardHandler.GetExchangeRate)

	api.POST("/sync", syncHandler.TriggerSync)
	api.GET("/sync/status", syncHandler.GetSyncStatus)

	// Background scheduler for the periodic mailbox sync
	scheduler := services.NewScheduler(syncService, cfg.Sync)
	go scheduler.Run(ctx)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			slog.Error("Server stopped", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("Shutdown signal received")
	case <-ctx.Done():
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
