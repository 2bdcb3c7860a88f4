package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// convertHEICtoPNG shells out to an external converter (heif-convert or
// ImageMagick) since tesseract cannot read HEIC directly. The returned
// cleanup removes the temporary PNG.
func convertHEICtoPNG(ctx context.Context, r Runner, converter, in string) (string, []string, func(), error) {
	if converter == "" {
		converter = "heif-convert"
	}

	dir, err := os.MkdirTemp("", "invoice-heic-*")
	if err != nil {
		return "", nil, nil, fmt.Errorf("mkdtemp: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	out := filepath.Join(dir, base+".png")

	// Both heif-convert and ImageMagick accept "<in> <out>" and pick
	// the output format from the extension.
	if _, _, err := r.Run(ctx, converter, in, out); err != nil {
		cleanup()
		return "", nil, nil, fmt.Errorf("heic convert: %w", err)
	}
	if _, err := os.Stat(out); err != nil {
		cleanup()
		return "", nil, nil, fmt.Errorf("heic convert produced no output: %w", err)
	}
	return out, []string{"converted heic input to png"}, cleanup, nil
}
