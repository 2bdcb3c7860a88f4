package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minhvu-dev/invoice-ocr/constants"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	res := Result{
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Pages:      1,
	}

	text, err := e.runTesseract(ctx, path)
	if err != nil {
		return res, fmt.Errorf("tesseract: %w", err)
	}
	res.Text = normalizeOCRText(text)

	if conf, ok := e.tesseractConfidence(ctx, path); ok {
		res.Confidence = conf
	} else {
		res.Confidence = estimateConfidence(res.Text)
		res.Warnings = append(res.Warnings, "tsv confidence unavailable, using heuristic")
	}

	e.logger.Info("image ocr complete",
		"path", path,
		"chars", len(res.Text),
		"confidence", res.Confidence)
	return res, nil
}

func (e *Extractor) runTesseract(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// tesseractConfidence reruns tesseract in TSV mode and averages the
// per-word confidence column. Words tesseract marks -1 (layout rows)
// are skipped.
func (e *Extractor) tesseractConfidence(ctx context.Context, imagePath string) (float32, bool) {
	args := []string{imagePath, "stdout", "-l", e.cfg.TesseractLang, "tsv"}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		e.logger.Debug("tesseract tsv run failed", "error", err)
		return 0, false
	}
	return parseTSVConfidence(string(out))
}

func parseTSVConfidence(tsv string) (float32, bool) {
	var sum float64
	var n int
	for i, line := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue // header
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		if strings.TrimSpace(fields[11]) == "" {
			continue
		}
		sum += conf
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float32(sum / float64(n) / 100.0), true
}

// ocrImageFiles runs tesseract over a set of page images and joins the
// results with form feeds, mirroring pdftotext's page separator.
func (e *Extractor) ocrImageFiles(ctx context.Context, paths []string) (string, []string, error) {
	var pages []string
	var warnings []string
	for _, p := range paths {
		text, err := e.runTesseract(ctx, p)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ocr failed for %s: %v", filepath.Base(p), err))
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return "", warnings, fmt.Errorf("ocr produced no text for %d page(s)", len(paths))
	}
	return strings.Join(pages, "\f"), warnings, nil
}
