// Package ocr defines the OCR collaborator used by the image extractors.
//
// Recognition is best-effort: an engine may return an empty string for
// unreadable input instead of an error. The production implementation
// shells out to the tesseract binary, matching how the usual Python
// tooling drives tesseract under the hood.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Engine recognizes text in an image.
type Engine interface {
	// Recognize returns the text found in the encoded image (PNG or JPEG
	// bytes). A clean run over an image with no legible text returns "".
	Recognize(ctx context.Context, image []byte) (string, error)
}

// DefaultBinary is the tesseract executable looked up on PATH when no
// explicit path is configured.
const DefaultBinary = "tesseract"

// Tesseract is an Engine backed by the tesseract CLI.
type Tesseract struct {
	binary string
}

// NewTesseract creates a tesseract-backed engine. binary may be empty to
// use DefaultBinary.
func NewTesseract(binary string) *Tesseract {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tesseract{binary: binary}
}

// Recognize pipes the image through `tesseract stdin stdout`.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout")
	cmd.Stdin = bytes.NewReader(image)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// noop is an Engine that recognizes nothing.
type noop struct{}

func (noop) Recognize(context.Context, []byte) (string, error) { return "", nil }

// Noop returns an Engine that always reports empty text. Useful when image
// ingestion is disabled or in tests that do not exercise OCR.
func Noop() Engine {
	return noop{}
}
