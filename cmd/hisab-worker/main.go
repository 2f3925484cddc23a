package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hisab/internal/amqp"
	"hisab/internal/config"
	applog "hisab/internal/log"
	"hisab/internal/mail/gmail"
	"hisab/internal/pdf"
	"hisab/internal/storage"
	"hisab/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup("hisab-worker")
	logger.Info("Starting hisab-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.HasMailCredentials() {
		logger.Error("Missing Gmail OAuth credentials, run oauth-init first")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	opts, err := pdf.LoadOptions(cfg.PDFFontRegularPath, cfg.PDFFontBoldPath, cfg.PDFCurrency)
	if err != nil {
		logger.Error("Failed to load PDF fonts", "error", err)
		os.Exit(1)
	}
	renderer := pdf.NewRenderer(opts)

	sender, err := gmail.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Gmail client", "error", err)
		os.Exit(1)
	}
	logger.Info("Gmail client initialized")

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reportWorker := worker.NewReportWorker(repo, renderer, sender)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := amqpClient.ConsumeReportRequests(ctx, func(msg *amqp.ReportRequest) error {
			return reportWorker.HandleReportRequest(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second) // let the in-flight report finish
	logger.Info("Worker shutdown complete")
}
