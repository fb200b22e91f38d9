package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF produces one Page per PDF page that yields text.
//
// Pages with no extractable text (scans, blank pages) are dropped; the
// remaining pages keep their original 1-based numbers, so the output
// sequence may have gaps. A page that fails to decode is skipped the same
// way, keeping the partial extraction instead of discarding the document.
func extractPDF(data []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf: %v", ErrExtraction, err)
	}

	var pages []Page
	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Corrupt single page: keep what the other pages gave us.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, Page{Number: num, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no extractable text in pdf", ErrExtraction)
	}
	return pages, nil
}
