package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/fabworks-io/quotation-engine/pkg/config"
	"github.com/fabworks-io/quotation-engine/pkg/database"
	"github.com/fabworks-io/quotation-engine/pkg/handlers"
	"github.com/fabworks-io/quotation-engine/pkg/logging"
	"github.com/fabworks-io/quotation-engine/pkg/middleware"
	"github.com/fabworks-io/quotation-engine/pkg/repositories"
	"github.com/fabworks-io/quotation-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("default_currency", cfg.Quoting.DefaultCurrency),
		zap.String("quote_number_prefix", cfg.Quoting.QuoteNumberPrefix))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.URL(),
		MaxConnections:  cfg.Database.MaxConnections,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Migrations run through database/sql (required by golang-migrate).
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection",
			zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations",
			zap.String("error", logging.SanitizeError(err)))
	}
	sqlDB.Close()

	projectRepo := repositories.NewProjectRepository(db)
	schemaRepo := repositories.NewMarkupSchemaRepository(db)
	quoteRepo := repositories.NewCustomerQuoteRepository(db)

	projectService := services.NewProjectService(projectRepo, logger)
	quotingService := services.NewQuotingService(schemaRepo, cfg.Quoting.DefaultCurrency, logger)
	numbers := services.NewQuoteNumberGenerator(quoteRepo, cfg.Quoting.QuoteNumberPrefix)
	finalizer := services.NewQuoteFinalizer(quoteRepo, schemaRepo, quotingService, numbers, cfg.Quoting.DefaultCategory, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux)
	handlers.NewQuotesHandler(quotingService, finalizer, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting quotation-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
