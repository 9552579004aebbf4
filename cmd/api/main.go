package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	appai "github.com/bryanwahyu/product-content-ai/internal/application/ai"
	appcontent "github.com/bryanwahyu/product-content-ai/internal/application/content"
	"github.com/bryanwahyu/product-content-ai/internal/config"
	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
	"github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/ai/gemini"
	"github.com/bryanwahyu/product-content-ai/internal/infra/ai/openai"
	"github.com/bryanwahyu/product-content-ai/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/product-content-ai/internal/infra/db/mysql"
	"github.com/bryanwahyu/product-content-ai/internal/infra/db/postgres"
	"github.com/bryanwahyu/product-content-ai/internal/infra/httpserver"
	"github.com/bryanwahyu/product-content-ai/internal/infra/logging"
	minioStore "github.com/bryanwahyu/product-content-ai/internal/infra/storage"
	"github.com/bryanwahyu/product-content-ai/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := logging.WithLogger(context.Background(), logger)

	// init AI provider
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logger.Fatal("ai provider init error", zap.Error(err))
	}

	// init repo
	checkers := map[string]middleware.HealthChecker{}
	repo, db, err := newRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("storage init error", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// init service
	svc := &appcontent.Service{
		Repo:     repo,
		Analyzer: appai.NewService(provider, cfg.AI.Timeout),
	}

	// init minio (optional)
	if cfg.Minio.Enabled {
		archive, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		svc.Archive = archive
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, httpserver.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HealthCheckers: checkers,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("ai_provider", cfg.AI.Provider),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("archive", cfg.Minio.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newProvider(ctx context.Context, cfg *config.Config) (domai.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model), nil
	default:
		return gemini.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	}
}

// newRepository returns the configured store and, for SQL drivers, the
// connection so the caller can close it and register a health check.
func newRepository(ctx context.Context, cfg *config.Config) (product.Repository, *sql.DB, error) {
	clock := application.SystemClock{}
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return mysqlp.NewAnalysisRepository(db, clock), db, nil
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewAnalysisRepository(db, clock), db, nil
	default:
		return memory.NewAnalysisRepository(clock), nil, nil
	}
}
