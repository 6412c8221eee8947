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

	_ "github.com/lib/pq"

	"github.com/mlukic/matchday/config"
	"github.com/mlukic/matchday/db"
	"github.com/mlukic/matchday/handlers"
	"github.com/mlukic/matchday/live"
	"github.com/mlukic/matchday/metrics"
	"github.com/mlukic/matchday/repositories"
	api "github.com/mlukic/matchday/routes"
	"github.com/mlukic/matchday/services"
	"github.com/mlukic/matchday/storage"
	"github.com/mlukic/matchday/stores"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	metrics.Register()

	localStore, err := stores.NewLocalStore(cfg.DataDir, logger)
	if err != nil {
		logger.Error("failed to initialize local store", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("local store initialized", slog.String("dir", cfg.DataDir))

	// The remote store is optional. A missing DATABASE_URL means local-only;
	// an unreachable database is not fatal either: the handle is opened
	// without a ping and the store applies the schema on first successful
	// contact, so the coordinator starts in local-fallback mode and can be
	// promoted later via /storage/retry.
	var remoteStore *stores.RemoteStore
	var repairService *services.RepairService
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Error("invalid database configuration", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()

		if err := db.Ping(dbConn, 5*time.Second); err != nil {
			logger.Warn("database unreachable at startup, will retry on demand",
				slog.Any("error", err))
		} else {
			logger.Info("database connection established")
		}

		tournamentRepo := repositories.NewPostgresTournamentRepository()
		teamRepo := repositories.NewPostgresTeamRepository()
		playerRepo := repositories.NewPostgresPlayerRepository()
		matchRepo := repositories.NewPostgresMatchRepository()
		goalRepo := repositories.NewPostgresGoalRepository()

		remoteStore = stores.NewRemoteStore(dbConn, tournamentRepo, teamRepo, playerRepo, matchRepo, goalRepo, logger)
		repairService = services.NewRepairService(dbConn, tournamentRepo, matchRepo, goalRepo, logger)
	} else {
		logger.Info("no DATABASE_URL configured, running local-only")
	}

	var archiveService *services.ArchiveService
	if cfg.Archive != nil {
		uploader, err := storage.NewR2Uploader(storage.R2UploaderConfig{
			AccountID:       cfg.Archive.AccountID,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			BucketName:      cfg.Archive.BucketName,
		})
		if err != nil {
			logger.Error("failed to initialize snapshot uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiveService = services.NewArchiveService(uploader, logger)
		logger.Info("snapshot archival enabled", slog.String("bucket", cfg.Archive.BucketName))
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()

	authService := services.NewAuthService(cfg.JWTSecretKey, cfg.AdminPasswordHash)

	// Nil checks before the interface assignments keep typed-nil pointers out
	// of the facade's optional hooks.
	var remote services.RemoteBackend
	if remoteStore != nil {
		remote = remoteStore
	}
	var repair services.RepairRunner
	if repairService != nil {
		repair = repairService
	}
	var archiver services.Archiver
	if archiveService != nil {
		archiver = archiveService
	}
	syncService := services.NewSyncService(remote, localStore, repair, wsHub, archiver, logger)

	if err := syncService.Initialize(context.Background()); err != nil {
		logger.Error("storage initialization failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("storage initialized", slog.String("mode", string(syncService.Status().Mode)))

	router := api.InitRoutes(api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(syncService),
		Storage:    handlers.NewStorageHandler(syncService, repairService),
		Live:       handlers.NewLiveHandler(wsHub, logger),
	}, authService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
