package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/minhvu-dev/invoice-ocr/internal/common"
	"github.com/minhvu-dev/invoice-ocr/internal/export"
	"github.com/minhvu-dev/invoice-ocr/internal/extraction"
	"github.com/minhvu-dev/invoice-ocr/internal/ocr"
	"github.com/minhvu-dev/invoice-ocr/internal/repository"
	"github.com/minhvu-dev/invoice-ocr/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional, env vars win
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(ctx, pool, logger); err != nil {
		logger.Error("applying migrations", "error", err)
		os.Exit(1)
	}

	images := repository.NewImageRepository(pool, logger)
	invoices := repository.NewInvoiceRepository(pool, logger)

	ocrx := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		HeicConverter: cfg.OCR.HeicConverter,
	}, logger)
	engine := extraction.NewExtractor(logger)
	exporter := export.NewService(invoices, logger)

	h := server.NewHandler(ocrx, engine, images, invoices, exporter, pool, server.HandlerConfig{
		MaxFileSize: cfg.Upload.MaxFileSize,
		OCRTimeout:  cfg.Server.OCRTimeout,
	}, logger)
	srv := server.NewServer(cfg.Server.Addr, h, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("stopped")
}
