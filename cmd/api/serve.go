package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/abduss/storeit/internal/auth"
	"github.com/abduss/storeit/internal/config"
	"github.com/abduss/storeit/internal/file"
	"github.com/abduss/storeit/internal/guest"
	"github.com/abduss/storeit/internal/logger"
	"github.com/abduss/storeit/internal/metrics"
	"github.com/abduss/storeit/internal/presigned"
	"github.com/abduss/storeit/internal/server"
	"github.com/abduss/storeit/internal/storage"
	"github.com/abduss/storeit/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg, err := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logg.Sync()

	result := cfg.Validate()
	for _, warning := range result.Warnings {
		logg.Warn("config", zap.String("warning", warning))
	}
	if !result.Valid {
		for _, e := range result.Errors {
			logg.Error("config", zap.String("error", e))
		}
		return errors.New("invalid configuration, run check-config for details")
	}

	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer dbPool.Close()

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("connect minio: %w", err)
	}

	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	authRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(authRepo, cfg.Auth)

	usageRepo := usage.NewRepository(dbPool)
	usageService := usage.NewService(usageRepo, cfg.Storage.QuotaBytes)

	presignedService := presigned.NewService(minioClient, cfg.MinIO.Bucket, cfg.Storage.PresignTTL)

	fileRepo := file.NewRepository(dbPool)
	fileStore := file.NewMinIOStore(minioClient, cfg.MinIO.Bucket)
	fileService := file.NewService(fileRepo, usageRepo, fileStore,
		file.WithMaxFileSize(cfg.Storage.MaxUploadBytes),
		file.WithQuota(cfg.Storage.QuotaBytes),
		file.WithURLSigner(presignedService),
		file.WithUploadObserver(metrics.ObserveUpload),
		file.WithLogger(logg.Named("file")),
	)

	router := server.NewRouter(server.Dependencies{
		Config:           cfg,
		DB:               dbPool,
		ObjectStore:      minioClient,
		AuthService:      authService,
		FileService:      fileService,
		FileLookup:       fileRepo,
		UsageService:     usageService,
		PresignedService: presignedService,
		Guest:            guest.NewDataset(),
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info("StoreIt API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
		return err
	}
	return nil
}
