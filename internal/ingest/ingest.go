package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/invoice-ocr/constants"
	"github.com/minhvu-dev/invoice-ocr/internal/entity"
	"github.com/minhvu-dev/invoice-ocr/internal/extraction"
	"github.com/minhvu-dev/invoice-ocr/internal/ocr"
	"github.com/minhvu-dev/invoice-ocr/internal/repository"
)

// OCRExtractor matches ocr.Extractor.
type OCRExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

// Engine matches extraction.Extractor.
type Engine interface {
	ExtractAll(text string) extraction.ExtractionResult
}

// Service ingests invoice files straight from the filesystem, the
// same OCR and extraction path the HTTP upload takes.
type Service struct {
	ocr      OCRExtractor
	engine   Engine
	images   repository.ImageRepository
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(ocrx OCRExtractor, engine Engine, images repository.ImageRepository, invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ocr: ocrx, engine: engine, images: images, invoices: invoices, logger: logger}
}

// ProcessFile runs one file through OCR, extraction, and storage.
func (s *Service) ProcessFile(ctx context.Context, path string) (*entity.Invoice, error) {
	start := time.Now()

	ocrRes, err := s.ocr.Extract(ctx, path)
	if err != nil {
		s.logger.Error("ocr failed", "path", path, "error", err)
		return nil, err
	}
	result := s.engine.ExtractAll(ocrRes.Text)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img := &entity.ImageFile{
		ID:          uuid.New(),
		Filename:    filepath.Base(path),
		ContentType: contentTypeForExt(filepath.Ext(path)),
		Data:        data,
		FileSize:    int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.images.Save(ctx, img); err != nil {
		return nil, err
	}

	inv, err := s.invoices.CreateFromExtraction(ctx, img.ID, &result)
	if err != nil {
		return nil, err
	}
	s.logger.Info("file ingested",
		"path", path,
		"invoice_id", inv.ID,
		"items", len(inv.Items),
		"ocr_method", ocrRes.Method,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return inv, nil
}

// ProcessDir walks root and ingests every supported file. Hidden
// entries are skipped. Failures are logged and counted, not fatal.
func (s *Service) ProcessDir(ctx context.Context, root string) (processed, failed int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !allowedPath(path) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, perr := s.ProcessFile(ctx, path); perr != nil {
			failed++
			return nil
		}
		processed++
		return nil
	})
	return processed, failed, err
}

func allowedPath(path string) bool {
	ext := constants.NormalizeExt(filepath.Ext(path))
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func contentTypeForExt(ext string) string {
	switch constants.NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "tiff":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	}
	return "application/octet-stream"
}
