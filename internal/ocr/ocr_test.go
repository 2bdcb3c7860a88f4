package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/invoice-ocr/constants"
)

type stubRunner struct {
	fn    func(name string, args []string) ([]byte, []byte, error)
	calls [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.fn(name, args)
}

func newTestExtractor(t *testing.T, fn func(name string, args []string) ([]byte, []byte, error)) (*Extractor, *stubRunner) {
	t.Helper()
	e := NewExtractor(Config{}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	stub := &stubRunner{fn: fn}
	e.runner = stub
	return e, stub
}

func TestExtractImageUsesVietnameseModel(t *testing.T) {
	const text = "HÓA ĐƠN GTGT\nTổng cộng: 450.000 đồng\n"
	e, stub := newTestExtractor(t, func(name string, args []string) ([]byte, []byte, error) {
		if args[len(args)-1] == "tsv" {
			return nil, nil, fmt.Errorf("no tsv build")
		}
		return []byte(text), nil, nil
	})

	res, err := e.Extract(context.Background(), "/tmp/receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "vie", res.Language)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "450.000")
	assert.Greater(t, res.Confidence, float32(0))
	assert.Contains(t, res.Warnings, "tsv confidence unavailable, using heuristic")

	require.NotEmpty(t, stub.calls)
	first := stub.calls[0]
	assert.Equal(t, "tesseract", first[0])
	assert.Contains(t, first, "-l")
	assert.Contains(t, first, "vie")
}

func TestExtractImageTSVConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tHóa\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\tđơn\n" +
		"2\t1\t1\t0\t0\t0\t0\t0\t10\t10\t-1\t\n"
	e, _ := newTestExtractor(t, func(name string, args []string) ([]byte, []byte, error) {
		if args[len(args)-1] == "tsv" {
			return []byte(tsv), nil, nil
		}
		return []byte("Hóa đơn"), nil, nil
	})

	res, err := e.Extract(context.Background(), "/tmp/a.png")
	require.NoError(t, err)
	assert.InDelta(t, 0.80, float64(res.Confidence), 0.001)
	assert.Empty(t, res.Warnings)
}

func TestExtractPDFTextLayer(t *testing.T) {
	body := strings.Repeat("Hóa đơn bán hàng số AB-123. ", 5) + "\f" +
		"Trang hai với ngày 05/03/2024.\f"
	e, stub := newTestExtractor(t, func(name string, args []string) ([]byte, []byte, error) {
		require.Equal(t, "pdftotext", name)
		return []byte(body), nil, nil
	})

	res, err := e.Extract(context.Background(), "/tmp/invoice.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, float32(1.0), res.Confidence)
	assert.Len(t, stub.calls, 1)
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	e, stub := newTestExtractor(t, func(name string, args []string) ([]byte, []byte, error) {
		switch name {
		case "pdftotext":
			return []byte("  \n"), nil, nil // scanned pdf, empty text layer
		case "pdftoppm":
			prefix := args[len(args)-1]
			for i := 1; i <= 2; i++ {
				p := fmt.Sprintf("%s-%d.png", prefix, i)
				if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		case "tesseract":
			if args[len(args)-1] == "tsv" {
				return nil, nil, fmt.Errorf("no tsv")
			}
			return []byte("Tổng cộng: 130.000 đồng"), nil, nil
		}
		return nil, nil, fmt.Errorf("unexpected command %s", name)
	})

	res, err := e.Extract(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "130.000")
	assert.NotEmpty(t, res.Warnings)

	var sawPpm bool
	for _, c := range stub.calls {
		if c[0] == "pdftoppm" {
			sawPpm = true
		}
	}
	assert.True(t, sawPpm)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e, _ := newTestExtractor(t, func(name string, args []string) ([]byte, []byte, error) {
		t.Fatalf("no command should run, got %s", name)
		return nil, nil, nil
	})
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "notes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestNormalizeOCRText(t *testing.T) {
	in := "Dòng một\r\nDòng   hai\t\tba\n\n\n\n│││ Cột ─────── kẻ\nGiữ | đơn lẻ\n"
	out := normalizeOCRText(in)

	assert.Contains(t, out, "Dòng một\nDòng hai ba")
	assert.NotContains(t, out, "\r")
	assert.NotContains(t, out, "\n\n\n")
	assert.NotContains(t, out, "───")
	assert.Contains(t, out, "Giữ | đơn lẻ")
}

func TestEstimateConfidence(t *testing.T) {
	assert.Equal(t, float32(0), estimateConfidence("   "))

	invoice := "HÓA ĐƠN BÁN HÀNG\nNgày 05 tháng 03 năm 2024\n" +
		"Phở bò: 130.000\nTổng cộng: 450.000 đồng\n" +
		strings.Repeat("nội dung ", 10)
	garbage := "@@ ## $$"

	assert.Greater(t, estimateConfidence(invoice), float32(0.8))
	assert.Greater(t, estimateConfidence(invoice), estimateConfidence(garbage))
	assert.LessOrEqual(t, estimateConfidence(invoice), float32(1.0))
}

func TestParseTSVConfidenceEmpty(t *testing.T) {
	_, ok := parseTSVConfidence("level\tconf\ttext\n")
	assert.False(t, ok)
}
