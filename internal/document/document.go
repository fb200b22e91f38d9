// Package document binds chunked text to its provenance.
//
// A Chunk is the atomic retrievable unit: the text plus everything needed
// to address it and cite it back to the upload it came from. Chunks are
// immutable once assembled; the vector store persists copies.
package document

import (
	"fmt"
	"strconv"

	"github.com/koopa0/docqa/internal/chunker"
	"github.com/koopa0/docqa/internal/extract"
)

// Metadata keys under which chunk provenance is stored alongside the
// embedding.
const (
	MetaFilename = "filename"
	MetaFileID   = "file_id"
	MetaIndex    = "chunk_index"
	MetaPage     = "page"
)

// Chunk is one retrievable span of extracted text with provenance.
//
// Index is zero-based and contiguous per file, increasing monotonically
// across pages of the same upload. Page is the original 1-based source
// page number; 0 means the source format has no page concept.
type Chunk struct {
	Text     string
	Index    int
	FileID   string
	Filename string
	Page     int
}

// Key returns the storage key the chunk is persisted under. Keys are
// scoped by FileID, not filename, so two uploads sharing a filename can
// never overwrite each other's entries.
func (c Chunk) Key() string {
	return fmt.Sprintf("%s_%d", c.FileID, c.Index)
}

// Metadata flattens the chunk's provenance for the vector store.
func (c Chunk) Metadata() map[string]string {
	m := map[string]string{
		MetaFilename: c.Filename,
		MetaFileID:   c.FileID,
		MetaIndex:    strconv.Itoa(c.Index),
	}
	if c.Page > 0 {
		m[MetaPage] = strconv.Itoa(c.Page)
	}
	return m
}

// FromMetadata rebuilds a Chunk from stored text and metadata.
// Missing or malformed numeric fields degrade to their zero values rather
// than failing the read path.
func FromMetadata(text string, meta map[string]string) Chunk {
	c := Chunk{
		Text:     text,
		Filename: meta[MetaFilename],
		FileID:   meta[MetaFileID],
	}
	if idx, err := strconv.Atoi(meta[MetaIndex]); err == nil {
		c.Index = idx
	}
	if page, err := strconv.Atoi(meta[MetaPage]); err == nil {
		c.Page = page
	}
	return c
}

// Assemble chunks an extracted document and tags every chunk with its
// provenance.
//
// For paged documents (the PDF path) each page's text is chunked
// separately and its chunks carry that page's original number; the chunk
// index still increases across the whole file. Flat documents produce
// chunks tagged with filename and fileID only.
func Assemble(doc extract.Document, fileID string, cfg chunker.Config) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var chunks []Chunk
	appendChunks := func(text string, page int) error {
		texts, err := chunker.Split(text, cfg)
		if err != nil {
			return err
		}
		for _, t := range texts {
			chunks = append(chunks, Chunk{
				Text:     t,
				Index:    len(chunks),
				FileID:   fileID,
				Filename: doc.Filename,
				Page:     page,
			})
		}
		return nil
	}

	if doc.Paged() {
		for _, page := range doc.Pages {
			if err := appendChunks(page.Text, page.Number); err != nil {
				return nil, err
			}
		}
		return chunks, nil
	}

	if err := appendChunks(doc.Text, 0); err != nil {
		return nil, err
	}
	return chunks, nil
}
