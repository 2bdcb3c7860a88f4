package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/minhvu-dev/invoice-ocr/internal/common"
	"github.com/minhvu-dev/invoice-ocr/internal/export"
	"github.com/minhvu-dev/invoice-ocr/internal/extraction"
	"github.com/minhvu-dev/invoice-ocr/internal/ingest"
	"github.com/minhvu-dev/invoice-ocr/internal/ocr"
	"github.com/minhvu-dev/invoice-ocr/internal/repository"
)

// invoicebatch ingests a directory of invoice files in one shot, or
// keeps watching it for new ones.
func main() {
	var (
		dir      = flag.String("dir", "", "directory of invoice files (required)")
		watch    = flag.Bool("watch", false, "keep watching the directory after the initial scan")
		debounce = flag.Duration("debounce", 2*time.Second, "settle time before a changed file is ingested")
		out      = flag.String("out", "", "write an XLSX summary here after a one-shot run")
		fromStr  = flag.String("from", "", "summary window start, YYYY-MM-DD (default: 30 days before --to)")
		toStr    = flag.String("to", "", "summary window end, YYYY-MM-DD (default: today)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *dir == "" {
		logger.Error("usage", "cmd", "invoicebatch --dir <path> [--watch] [--out summary.xlsx]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

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
	svc := ingest.NewService(ocrx, engine, images, invoices, logger)

	if *watch {
		runWatch(ctx, svc, *dir, *debounce, logger)
		return
	}

	processed, failed, err := svc.ProcessDir(ctx, *dir)
	if err != nil {
		logger.Error("batch run failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("batch run complete", "dir", *dir, "processed", processed, "failed", failed)

	if *out != "" {
		writeSummary(ctx, invoices, *out, *fromStr, *toStr, logger)
	}
}

func runWatch(ctx context.Context, svc *ingest.Service, dir string, debounce time.Duration, logger *slog.Logger) {
	evCh, errCh, err := ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    debounce,
	}, logger)
	if err != nil {
		logger.Error("starting watcher", "dir", dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for invoices", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher stopped")
			return
		case path, ok := <-evCh:
			if !ok {
				return
			}
			if _, err := svc.ProcessFile(ctx, path); err != nil {
				logger.Error("ingest failed", "path", path, "error", err)
			}
		case werr, ok := <-errCh:
			if ok && werr != nil {
				logger.Error("watch error", "error", werr)
			}
		}
	}
}

func writeSummary(ctx context.Context, invoices repository.InvoiceRepository, out, fromStr, toStr string, logger *slog.Logger) {
	now := time.Now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			logger.Error("invalid --to date", "value", toStr, "error", err)
			os.Exit(1)
		}
		to = parsed
	}
	from := to.AddDate(0, 0, -30)
	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			logger.Error("invalid --from date", "value", fromStr, "error", err)
			os.Exit(1)
		}
		from = parsed
	}

	exporter := export.NewService(invoices, logger)
	data, err := exporter.ExportSummaryXLSX(ctx, from, to)
	if err != nil {
		logger.Error("building summary", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		logger.Error("creating output directory", "path", out, "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logger.Error("writing summary", "path", out, "error", err)
		os.Exit(1)
	}
	logger.Info("summary written", "path", out)
}
