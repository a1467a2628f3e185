// Package entrypoint wires configuration, storage, stores and the HTTP
// router together and runs the server until a shutdown signal arrives.
package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookden/bookden/internal/auth"
	"github.com/bookden/bookden/internal/config"
	"github.com/bookden/bookden/internal/database"
	"github.com/bookden/bookden/internal/database/catalog"
	"github.com/bookden/bookden/internal/database/engagement"
	"github.com/bookden/bookden/internal/database/users"
	http_controllers "github.com/bookden/bookden/internal/http"
	"github.com/bookden/bookden/internal/storage"
)

// Serve runs the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("host", cfg.HTTP.Host), zap.Int32("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server exiting")
}

// Run assembles the application and starts serving.
func Run(cfg *config.Config, version string) {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting bookden", zap.String("version", version))

	// No fallback secret: a missing JWT_SECRET is a startup error, not a
	// silently insecure default.
	if cfg.Auth.TokenSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	fileStore, uploadDir, err := newFileStore(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	userRepo := users.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	engagementRepo := engagement.NewRepository(db.DB)

	tokens := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry)
	middleware := auth.NewMiddleware(tokens, userRepo, logger)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Logger:     logger,
		Middleware: middleware,
		Tokens:     tokens,
		Users:      userRepo,
		Catalog:    catalogRepo,
		Engagement: engagementRepo,
		Files:      fileStore,
		BcryptCost: cfg.Auth.BcryptCost,
		UploadDir:  uploadDir,
	})

	Serve(router, cfg, logger)
}

// newFileStore builds the configured storage backend. The second return
// value is the directory to serve at /uploads/books, empty for s3.
func newFileStore(cfg config.Storage) (storage.FileStore, string, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal, "":
		store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, cfg.UploadDir, nil
	case config.StorageBackendS3:
		store, err := storage.NewMinioStore(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
