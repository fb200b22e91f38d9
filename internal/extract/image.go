package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/jpeg" // register decoders for container validation

	"github.com/gen2brain/go-fitz"
)

// extractImage OCRs the input through the configured engine.
//
// The bytes are first decoded as a standard image (JPEG/PNG) to validate
// the container. When that fails the input is treated as a PDF-as-image:
// each page is rasterized and OCR'd, the results concatenated. OCR itself
// is best-effort and may legitimately produce empty text.
func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return e.ocrPDFPages(ctx, data)
	}

	text, err := e.engine.Recognize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: ocr: %v", ErrExtraction, err)
	}
	return text, nil
}

// ocrPDFPages renders each page of a PDF to an image and OCRs the renders.
func (e *Extractor) ocrPDFPages(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("%w: input is neither a decodable image nor a pdf: %v", ErrExtraction, err)
	}
	defer func() {
		_ = doc.Close()
	}()

	var out strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		render, err := doc.Image(n)
		if err != nil {
			return "", fmt.Errorf("%w: rendering pdf page %d: %v", ErrExtraction, n+1, err)
		}

		encoded, err := encodePNG(render)
		if err != nil {
			return "", fmt.Errorf("%w: encoding pdf page %d: %v", ErrExtraction, n+1, err)
		}

		text, err := e.engine.Recognize(ctx, encoded)
		if err != nil {
			return "", fmt.Errorf("%w: ocr on pdf page %d: %v", ErrExtraction, n+1, err)
		}
		out.WriteString(text)
		out.WriteString("\n")
	}
	return out.String(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
