package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/mwhite-io/docsearch/internal/attachments"
	"github.com/mwhite-io/docsearch/internal/config"
	"github.com/mwhite-io/docsearch/internal/documents"
	"github.com/mwhite-io/docsearch/internal/indexes"
	"github.com/mwhite-io/docsearch/internal/middleware"
	"github.com/mwhite-io/docsearch/internal/migrations"
	"github.com/mwhite-io/docsearch/internal/search"
	"github.com/mwhite-io/docsearch/internal/storage"
	"github.com/mwhite-io/docsearch/internal/textsearch"
	"github.com/mwhite-io/docsearch/pkg/logging"
	"github.com/mwhite-io/docsearch/pkg/routes"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := openDB(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Up(db, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize blob storage", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      buildRoutes(cfg, db, store, logger),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func buildRoutes(cfg *config.Config, db *sql.DB, store storage.System, logger *slog.Logger) *http.ServeMux {
	engine := textsearch.NewPostgres(logger)
	executor := search.NewExecutor(db, engine, logger, cfg.Search, cfg.Pagination)

	indexSys := indexes.New(db, logger, cfg.Pagination)
	documentSys := documents.New(db, store, logger)
	attachmentSys := attachments.New(db, store, logger, cfg.Pagination)

	resolver := func(ctx context.Context, ref string) (uuid.UUID, error) {
		id, err := documentSys.Resolve(ctx, ref)
		if errors.Is(err, documents.ErrNotFound) {
			return uuid.Nil, attachments.ErrDocumentNotFound
		}
		return id, err
	}

	indexHandler := indexes.NewHandler(indexSys, executor, logger)
	documentHandler := documents.NewHandler(documentSys, indexSys, executor, logger)
	attachmentHandler := attachments.NewHandler(attachmentSys, resolver, logger, cfg.Storage.MaxUploadSizeBytes())

	guarded := []func(http.Handler) http.Handler{
		middleware.RequestLogger(logger),
		middleware.APIKey(cfg.Server.APIKey, logger),
	}

	mux := http.NewServeMux()
	routes.Mount(mux, indexHandler.Routes(), guarded...)
	routes.Mount(mux, documentHandler.Routes(), guarded...)
	routes.Mount(mux, attachmentHandler.Routes(), guarded...)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
