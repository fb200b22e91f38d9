package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCX files are ZIP archives; the body lives in word/document.xml as
// WordprocessingML. Paragraphs (<w:p>) are joined with "\n" into one flat
// text, mirroring the no-page-concept contract for this format.

const docxDocumentPath = "word/document.xml"

func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: opening docx archive: %v", ErrExtraction, err)
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == docxDocumentPath {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("%w: docx archive has no %s", ErrExtraction, docxDocumentPath)
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrExtraction, docxDocumentPath, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs streams document.xml and collects the text of each <w:p>.
// Text runs live in <w:t> elements; explicit line breaks (<w:br>) and tabs
// inside a paragraph become "\n" and "\t".
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs  []string
		current     strings.Builder
		inParagraph bool
		inText      bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parsing docx xml: %v", ErrExtraction, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
				}
				inParagraph = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return paragraphs, nil
}
