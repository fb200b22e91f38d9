// Package extract turns raw uploaded files into plain text.
//
// Each supported format has a dedicated extractor producing a Document:
// either one flat text (DOCX, TXT, CSV, SQLite, images) or an ordered list
// of per-page texts with their original page numbers (PDF). Extractors are
// pure: they read the input bytes and nothing else.
//
// Format dispatch is a closed enum resolved from the file extension at the
// boundary. Unknown extensions fail with ErrUnsupportedFormat before any
// processing; unreadable content fails with ErrExtraction.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koopa0/docqa/internal/ocr"
)

// Sentinel errors distinguishing "we don't handle this format" from
// "we handle it but the content is unreadable".
var (
	// ErrUnsupportedFormat indicates the file extension maps to no extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction indicates the content is corrupt or otherwise unreadable.
	ErrExtraction = errors.New("extraction failed")
)

// Format identifies a supported input file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatDOCX
	FormatTXT
	FormatCSV
	FormatSQLite
	FormatImage
)

// String returns the canonical name of the format.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatTXT:
		return "txt"
	case FormatCSV:
		return "csv"
	case FormatSQLite:
		return "sqlite"
	case FormatImage:
		return "image"
	default:
		return "unknown"
	}
}

// formatByExtension maps lowercase file extensions to formats.
var formatByExtension = map[string]Format{
	".pdf":     FormatPDF,
	".docx":    FormatDOCX,
	".txt":     FormatTXT,
	".csv":     FormatCSV,
	".db":      FormatSQLite,
	".sqlite3": FormatSQLite,
	".jpg":     FormatImage,
	".jpeg":    FormatImage,
	".png":     FormatImage,
}

// ParseFormat resolves a filename to its Format by extension.
// Matching is case-insensitive. Unknown extensions return ErrUnsupportedFormat.
func ParseFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := formatByExtension[ext]
	if !ok {
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// Page is the text of a single source page with its original page number.
// Page numbers are 1-based and may have gaps: pages yielding no extractable
// text are dropped, not retained as empty placeholders.
type Page struct {
	Number int
	Text   string
}

// Document is the result of extraction, discarded after chunking.
// Exactly one of Text or Pages is populated: PDF extraction produces Pages,
// every other format produces flat Text.
type Document struct {
	Format   Format
	Filename string
	Text     string
	Pages    []Page
}

// Paged reports whether the document carries per-page texts.
func (d Document) Paged() bool {
	return len(d.Pages) > 0
}

// Extractor extracts text from raw file bytes. It holds no state beyond
// the injected OCR engine and is safe for concurrent use.
type Extractor struct {
	engine ocr.Engine
}

// New creates an Extractor. The OCR engine is only consulted for image
// inputs; pass ocr.Noop() if image support is not needed.
func New(engine ocr.Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Extract runs the extractor registered for format over data.
func (e *Extractor) Extract(ctx context.Context, format Format, data []byte, filename string) (Document, error) {
	doc := Document{Format: format, Filename: filename}

	var err error
	switch format {
	case FormatPDF:
		doc.Pages, err = extractPDF(data)
	case FormatDOCX:
		doc.Text, err = extractDOCX(data)
	case FormatTXT:
		doc.Text, err = extractTXT(data)
	case FormatCSV:
		doc.Text, err = extractCSV(data)
	case FormatSQLite:
		doc.Text, err = extractSQLite(ctx, data)
	case FormatImage:
		doc.Text, err = e.extractImage(ctx, data)
	default:
		return Document{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}
