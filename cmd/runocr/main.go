package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/minhvu-dev/invoice-ocr/internal/extraction"
	"github.com/minhvu-dev/invoice-ocr/internal/ocr"
)

// runocr runs the OCR and extraction stages over a single file and
// prints the result as JSON, without touching the database. Useful for
// tuning patterns against problem invoices.
func main() {
	lang := flag.String("lang", "vie", "tesseract language model")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	rawOnly := flag.Bool("raw", false, "print only the recognized text")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [flags] <invoice-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ocrx := ocr.NewExtractor(ocr.Config{TesseractLang: *lang}, logger)
	res, err := ocrx.Extract(ctx, path)
	if err != nil {
		logger.Error("ocr failed", "path", path, "error", err)
		os.Exit(1)
	}

	if *rawOnly {
		os.Stdout.WriteString(res.Text + "\n")
		return
	}

	engine := extraction.NewExtractor(logger)
	out := struct {
		extraction.ExtractionResult
		Method     string  `json:"ocr_method"`
		Pages      int     `json:"ocr_pages"`
		Confidence float32 `json:"ocr_confidence"`
	}{
		ExtractionResult: engine.ExtractAll(res.Text),
		Method:           res.Method,
		Pages:            res.Pages,
		Confidence:       res.Confidence,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encoding result", "error", err)
		os.Exit(1)
	}
}
