package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/seoscribe/internal/config"
	"github.com/kailas-cloud/seoscribe/internal/db"
	dbMemory "github.com/kailas-cloud/seoscribe/internal/db/memory"
	dbRedis "github.com/kailas-cloud/seoscribe/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/seoscribe/internal/db/sqlite"
	logpkg "github.com/kailas-cloud/seoscribe/internal/logger"
	"github.com/kailas-cloud/seoscribe/internal/metrics"
	sessionrepo "github.com/kailas-cloud/seoscribe/internal/repository/session"
	usagerepo "github.com/kailas-cloud/seoscribe/internal/repository/usage"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	chiTransport "github.com/kailas-cloud/seoscribe/internal/transport/chi"
	articleuc "github.com/kailas-cloud/seoscribe/internal/usecase/article"
	healthuc "github.com/kailas-cloud/seoscribe/internal/usecase/health"
	quotauc "github.com/kailas-cloud/seoscribe/internal/usecase/quota"
	sessionuc "github.com/kailas-cloud/seoscribe/internal/usecase/session"
	tooluc "github.com/kailas-cloud/seoscribe/internal/usecase/tool"
	"github.com/kailas-cloud/seoscribe/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting seoscribe app shell",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("backend_origin", cfg.Backend.Origin),
	)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open local storage", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Local storage ready")

	metrics.RegisterClientMetrics()

	// Session first: every backend request reads its bearer token.
	sessionSvc := sessionuc.New(sessionrepo.New(store, cfg.Storage.KeyPrefix), logger)

	backendClient, err := backend.New(backend.Config{
		Origin:   cfg.Backend.Origin,
		APIBase:  cfg.Backend.APIBase,
		AuthBase: cfg.Backend.AuthBase,
		Timeout:  time.Duration(cfg.Backend.TimeoutSec) * time.Second,
		Headers:  sessionSvc,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("Invalid backend configuration", zap.Error(err))
	}
	logger.Info("Backend client created",
		zap.String("api_base", backendClient.APIBase()),
		zap.String("auth_base", backendClient.AuthBase()),
	)

	quotaSvc := quotauc.New(backendClient, usagerepo.New(store, cfg.Storage.KeyPrefix), logger)
	initCtx, cancelInit := context.WithTimeout(ctx, time.Duration(cfg.Backend.TimeoutSec)*time.Second)
	quotaSvc.Init(initCtx)
	cancelInit()
	logger.Info("Quota mirror initialized",
		zap.String("state", string(quotaSvc.State())),
		zap.String("plan", quotaSvc.Plan().String()),
	)

	server := chiTransport.NewServer(chiTransport.Deps{
		Session:  sessionSvc,
		Quota:    quotaSvc,
		Articles: articleuc.New(backendClient, quotaSvc, sessionSvc),
		Tools:    tooluc.New(backendClient, quotaSvc),
		Backend:  backendClient,
		Health:   healthuc.New(store, sessionSvc, quotaSvc),
	}, cfg.Shell.PublicURL, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.CORS.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("public_url", cfg.Shell.PublicURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the local store for the configured driver.
func openStore(ctx context.Context, cfg config.StorageConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		// Avoid returning a typed nil inside db.Store.
		store, err := dbSQLite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Addrs,
			Password:   cfg.Password,
			DB:         cfg.DB,
			ClientName: "seoscribe-shell",
			TTL:        time.Duration(cfg.TTLHours) * time.Hour,
		})
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
