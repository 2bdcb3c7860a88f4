package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minhvu-dev/invoice-ocr/internal/common"
	"github.com/minhvu-dev/invoice-ocr/internal/entity"
	"github.com/minhvu-dev/invoice-ocr/internal/export"
	"github.com/minhvu-dev/invoice-ocr/internal/extraction"
	"github.com/minhvu-dev/invoice-ocr/internal/ocr"
	"github.com/minhvu-dev/invoice-ocr/internal/repository"
)

// OCRExtractor is the text-recognition collaborator. Implemented by
// ocr.Extractor; stubbed in tests.
type OCRExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

// Engine runs the regex extraction stages over recognized text.
type Engine interface {
	ExtractAll(text string) extraction.ExtractionResult
}

// SummaryExporter builds the XLSX workbook for a date window.
type SummaryExporter interface {
	ExportSummaryXLSX(ctx context.Context, from, to time.Time) ([]byte, error)
}

// Pinger is the database health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	ocr      OCRExtractor
	engine   Engine
	images   repository.ImageRepository
	invoices repository.InvoiceRepository
	exporter SummaryExporter
	pinger   Pinger

	maxFileSize int64
	ocrTimeout  time.Duration
	logger      *slog.Logger
}

type HandlerConfig struct {
	MaxFileSize int64
	OCRTimeout  time.Duration
}

func NewHandler(
	ocrx OCRExtractor,
	engine Engine,
	images repository.ImageRepository,
	invoices repository.InvoiceRepository,
	exporter SummaryExporter,
	pinger Pinger,
	cfg HandlerConfig,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 << 20
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 5 * time.Minute
	}
	return &Handler{
		ocr:         ocrx,
		engine:      engine,
		images:      images,
		invoices:    invoices,
		exporter:    exporter,
		pinger:      pinger,
		maxFileSize: cfg.MaxFileSize,
		ocrTimeout:  cfg.OCRTimeout,
		logger:      logger,
	}
}

type extractResponse struct {
	Invoice *entity.Invoice `json:"invoice"`
	OCR     ocrMeta         `json:"ocr"`
}

type ocrMeta struct {
	Method     string   `json:"method"`
	Language   string   `json:"language"`
	Pages      int      `json:"pages"`
	Confidence float32  `json:"confidence"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ExtractInvoice accepts a multipart upload, runs OCR and the
// extraction stages, and stores image plus invoice.
func (h *Handler) ExtractInvoice(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortError(c, h.logger, common.WrapError(common.ErrInvalidInput, "missing multipart field 'file'", err))
		return
	}
	if err := validateUpload(header, h.maxFileSize); err != nil {
		abortError(c, h.logger, err)
		return
	}

	data, tmpPath, cleanup, err := spoolUpload(header)
	if err != nil {
		abortError(c, h.logger, common.WrapError(common.ErrInternal, "spooling upload", err))
		return
	}
	defer cleanup()

	ocrCtx, cancel := context.WithTimeout(c.Request.Context(), h.ocrTimeout)
	defer cancel()
	ocrRes, err := h.ocr.Extract(ocrCtx, tmpPath)
	if err != nil {
		abortError(c, h.logger, common.WrapError(common.ErrInternal, "ocr failed", err))
		return
	}

	result := h.engine.ExtractAll(ocrRes.Text)

	img := &entity.ImageFile{
		ID:          uuid.New(),
		Filename:    filepath.Base(header.Filename),
		ContentType: contentTypeFor(header),
		Data:        data,
		FileSize:    int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.images.Save(c.Request.Context(), img); err != nil {
		abortError(c, h.logger, err)
		return
	}

	inv, err := h.invoices.CreateFromExtraction(c.Request.Context(), img.ID, &result)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, extractResponse{
		Invoice: inv,
		OCR: ocrMeta{
			Method:     ocrRes.Method,
			Language:   ocrRes.Language,
			Pages:      ocrRes.Pages,
			Confidence: ocrRes.Confidence,
			Warnings:   ocrRes.Warnings,
		},
	})
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortError(c, h.logger, common.WrapError(common.ErrInvalidInput, "invalid invoice id", err))
		return
	}
	inv, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortError(c, h.logger, common.WrapError(common.ErrInvalidInput, "invalid invoice id", err))
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortError(c, h.logger, common.WrapError(common.ErrInvalidInput, "invalid image id", err))
		return
	}
	img, err := h.images.GetByID(c.Request.Context(), id)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.Filename))
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// Summary returns daily aggregates for a date window, as JSON by
// default or as an XLSX workbook when format=xlsx.
func (h *Handler) Summary(c *gin.Context) {
	from, to, err := parseDateWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		abortError(c, h.logger, err)
		return
	}

	if c.Query("format") == "xlsx" {
		data, err := h.exporter.ExportSummaryXLSX(c.Request.Context(), from, to)
		if err != nil {
			abortError(c, h.logger, common.WrapError(common.ErrInternal, "building export", err))
			return
		}
		name := fmt.Sprintf("invoice-summary-%s-%s.xlsx", from.Format("20060102"), to.Format("20060102"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	invoices, err := h.invoices.ListByDateRange(c.Request.Context(), from, to)
	if err != nil {
		abortError(c, h.logger, err)
		return
	}
	summaries := export.Summarize(invoices)
	c.JSON(http.StatusOK, gin.H{
		"from":     from.Format("2006-01-02"),
		"to":       to.Format("2006-01-02"),
		"days":     summaries,
		"invoices": len(invoices),
	})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseDateWindow fills defaults: missing "to" means today, missing
// "from" means 30 days before "to".
func parseDateWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	parse := func(s string) (time.Time, error) {
		return time.Parse("2006-01-02", s)
	}

	var from, to time.Time
	var err error
	if toStr == "" {
		now := time.Now().UTC()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if to, err = parse(toStr); err != nil {
		return from, to, common.WrapError(common.ErrInvalidInput, "invalid 'to' date, want YYYY-MM-DD", err)
	}
	if fromStr == "" {
		from = to.AddDate(0, 0, -30)
	} else if from, err = parse(fromStr); err != nil {
		return from, to, common.WrapError(common.ErrInvalidInput, "invalid 'from' date, want YYYY-MM-DD", err)
	}
	if from.After(to) {
		return from, to, common.WrapError(common.ErrInvalidInput, "'from' is after 'to'", nil)
	}
	return from, to, nil
}

func abortError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	} else {
		logger.Debug("request rejected", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
