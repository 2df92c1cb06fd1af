// Package ocr extracts text from photos so documents and screenshots
// become searchable. The tesseract binary does the heavy lifting; when
// it is not installed the null extractor keeps the pipeline running.
package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TextExtractor pulls text content out of an image.
type TextExtractor interface {
	Name() string
	ExtractText(ctx context.Context, imageData []byte) (string, error)
}

// TesseractExtractor shells out to the tesseract CLI.
type TesseractExtractor struct {
	// Binary overrides the tesseract executable path. Empty means
	// look it up on PATH.
	Binary string
}

func (e TesseractExtractor) Name() string {
	return "tesseract"
}

// Available reports whether the tesseract binary can be found.
func (e TesseractExtractor) Available() bool {
	bin := e.Binary
	if bin == "" {
		bin = "tesseract"
	}
	_, err := exec.LookPath(bin)
	return err == nil
}

func (e TesseractExtractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	bin := e.Binary
	if bin == "" {
		bin = "tesseract"
	}

	dir, err := os.MkdirTemp("", "photo-organizer-ocr-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input")
	if err := os.WriteFile(input, imageData, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}

	// tesseract appends .txt to the output base name itself.
	outBase := filepath.Join(dir, "out")
	cmd := exec.CommandContext(ctx, bin, input, outBase)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	text, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read tesseract output: %w", err)
	}

	return strings.TrimSpace(string(text)), nil
}

// NullExtractor skips OCR entirely.
type NullExtractor struct{}

func (NullExtractor) Name() string {
	return "null"
}

func (NullExtractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	return "", nil
}
