package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/minhvu-dev/invoice-ocr/constants"
)

// minEmbeddedTextChars is the threshold below which a PDF's text layer
// is treated as absent and the file is rasterized for OCR instead.
const minEmbeddedTextChars = 40

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	res := Result{
		SourceType: constants.PDF,
		Language:   e.cfg.TesseractLang,
	}

	text, pages, err := e.pdfTextLayer(ctx, path)
	if err == nil && len(strings.TrimSpace(text)) >= minEmbeddedTextChars {
		res.Method = "pdf-text"
		res.Text = normalizeOCRText(text)
		res.Pages = pages
		res.Confidence = 1.0
		e.logger.Info("pdf text layer extracted", "path", path, "pages", pages, "chars", len(res.Text))
		return res, nil
	}
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("pdftotext failed: %v", err))
		e.logger.Warn("pdftotext failed, falling back to ocr", "path", path, "error", err)
	} else {
		res.Warnings = append(res.Warnings, "pdf has no usable text layer, falling back to ocr")
		e.logger.Info("pdf text layer too sparse, rasterizing", "path", path, "chars", len(strings.TrimSpace(text)))
	}

	ocrText, pages, warns, err := e.pdfViaOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, fmt.Errorf("pdf ocr fallback: %w", err)
	}
	res.Method = "pdf-ocr"
	res.Text = normalizeOCRText(ocrText)
	res.Pages = pages
	res.Confidence = estimateConfidence(res.Text)
	e.logger.Info("pdf ocr complete", "path", path, "pages", pages, "confidence", res.Confidence)
	return res, nil
}

func (e *Extractor) pdfTextLayer(ctx context.Context, path string) (string, int, error) {
	args := []string{"-layout", "-enc", "UTF-8"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, path, "-")
	out, _, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		return "", 0, err
	}
	text := string(out)
	pages := strings.Count(text, "\f")
	if pages == 0 && len(text) > 0 {
		pages = 1
	}
	return text, pages, nil
}

// pdfViaOCR rasterizes the PDF to per-page PNGs with pdftoppm, then
// feeds each page to tesseract.
func (e *Extractor) pdfViaOCR(ctx context.Context, path string) (string, int, []string, error) {
	dir, err := os.MkdirTemp("", "invoice-ocr-*")
	if err != nil {
		return "", 0, nil, fmt.Errorf("mkdtemp: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	args := []string{"-png", "-r", strconv.Itoa(e.cfg.DPI)}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, path, prefix)
	if _, _, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		return "", 0, nil, fmt.Errorf("pdftoppm: %w", err)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", 0, nil, fmt.Errorf("pdftoppm produced no pages")
	}
	sort.Strings(images)

	text, warnings, err := e.ocrImageFiles(ctx, images)
	if err != nil {
		return "", 0, warnings, err
	}
	return text, len(images), warnings, nil
}
