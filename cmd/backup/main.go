package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/imedwei/k8s-secrets-backup/internal/backup"
	"github.com/imedwei/k8s-secrets-backup/internal/config"
	"github.com/imedwei/k8s-secrets-backup/internal/health"
	"github.com/imedwei/k8s-secrets-backup/internal/kube"
	"github.com/imedwei/k8s-secrets-backup/internal/metrics"
	"github.com/imedwei/k8s-secrets-backup/internal/server"
	"github.com/imedwei/k8s-secrets-backup/internal/storage"
)

const version = "1.0.0"

func main() {
	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Kubernetes Secrets Backup starting", "version", version)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Log configuration (without credentials)
	logger.Info("Configuration loaded",
		"mode", cfg.Mode(),
		"namespaces", cfg.Namespaces,
		"bucket", cfg.S3Bucket,
		"backup_dir", cfg.S3BackupDir,
		"endpoint", cfg.S3Endpoint,
		"force_overwrite", cfg.ForceOverwrite,
		"respawn_protection_hours", cfg.RespawnProtectionHours,
	)

	metrics.Info.WithLabelValues(version).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start metrics server if enabled
	var httpServer *server.Server
	var wg sync.WaitGroup

	if metricsPort := os.Getenv("METRICS_PORT"); metricsPort != "" {
		port, err := strconv.Atoi(metricsPort)
		if err != nil {
			logger.Warn("Invalid METRICS_PORT, using default", "error", err)
			port = 8080
		}

		serverConfig := server.DefaultConfig()
		serverConfig.Port = port
		httpServer = server.New(serverConfig, logger)

		httpServer.RegisterHealthCheck("storage", func(ctx context.Context) health.Check {
			return health.Check{
				Status:    health.StatusHealthy,
				Timestamp: time.Now(),
				Details:   map[string]string{"bucket": cfg.S3Bucket},
			}
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httpServer.Start(); err != nil {
				logger.Error("HTTP server failed", "error", err)
			}
		}()
	}

	shutdownServer := func() {
		if httpServer == nil {
			return
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
		shutdownServer()
	}()

	// Create Kubernetes client
	kubeClient, err := kube.NewClient()
	if err != nil {
		logger.Error("Failed to create Kubernetes client", "error", err)
		os.Exit(1)
	}

	// Create storage provider
	storageProvider, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create storage provider", "error", err)
		os.Exit(1)
	}

	// Run the selected mode
	orchestrator := backup.NewOrchestrator(cfg, storageProvider, kubeClient, logger)

	if err := orchestrator.Run(ctx); err != nil {
		logger.Error("Run failed", "mode", cfg.Mode(), "error", err)
		shutdownServer()
		wg.Wait()
		os.Exit(1)
	}

	logger.Info("Run completed successfully", "mode", cfg.Mode())

	shutdownServer()
	wg.Wait()
}
