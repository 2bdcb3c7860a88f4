package server

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/minhvu-dev/invoice-ocr/constants"
	"github.com/minhvu-dev/invoice-ocr/internal/common"
)

func validateUpload(header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return common.WrapError(common.ErrInvalidInput,
			fmt.Sprintf("file too large: %d bytes, limit %d", header.Size, maxSize), nil)
	}
	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return common.WrapError(common.ErrInvalidInput,
			fmt.Sprintf("unsupported file type %q", ext), nil)
	}
	return nil
}

// spoolUpload reads the upload into memory for storage and also spools
// it to a temp file, since tesseract and poppler want a path. The
// cleanup removes the temp file.
func spoolUpload(header *multipart.FileHeader) ([]byte, string, func(), error) {
	src, err := header.Open()
	if err != nil {
		return nil, "", nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", nil, err
	}

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	tmp, err := os.CreateTemp("", "invoice-upload-*."+ext)
	if err != nil {
		return nil, "", nil, err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, "", nil, err
	}

	cleanup := func() { _ = os.Remove(tmp.Name()) }
	return data, tmp.Name(), cleanup, nil
}

// contentTypeFor prefers the client-declared type and falls back to
// the extension.
func contentTypeFor(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(header.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
