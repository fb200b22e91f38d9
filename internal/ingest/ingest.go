// Package ingest drives the write path from raw upload bytes to indexed
// chunks, and routes questions to the matching answer path.
//
// One Ingest call is atomic from the caller's perspective: format
// resolution, extraction and chunking all happen before the first store
// write, so an unsupported or unreadable file never leaves partial state
// behind.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/koopa0/docqa/internal/chunker"
	"github.com/koopa0/docqa/internal/document"
	"github.com/koopa0/docqa/internal/extract"
	"github.com/koopa0/docqa/internal/rag"
)

// ErrNoText indicates extraction succeeded but yielded nothing to index.
var ErrNoText = errors.New("no extractable text")

// Upserter is the store dependency, satisfied by *knowledge.Store.
type Upserter interface {
	Upsert(ctx context.Context, chunks []document.Chunk) error
}

// Answerer is the read-path dependency, satisfied by *rag.Answerer.
type Answerer interface {
	Answer(ctx context.Context, question string) (*rag.Answer, error)
	AnswerImage(ctx context.Context, question string, image []byte) (*rag.Answer, error)
}

// Receipt summarizes one successful ingestion.
type Receipt struct {
	FileID   string
	Filename string
	Format   extract.Format
	Chunks   int
}

// Pipeline owns ingestion and question routing.
type Pipeline struct {
	extractor *extract.Extractor
	store     Upserter
	answerer  Answerer
	chunkCfg  chunker.Config
	logger    *slog.Logger
}

// NewPipeline wires a Pipeline. An invalid chunk configuration is
// rejected here rather than on every Ingest call; a nil logger falls
// back to slog.Default().
func NewPipeline(extractor *extract.Extractor, store Upserter, answerer Answerer, chunkCfg chunker.Config, logger *slog.Logger) (*Pipeline, error) {
	if err := chunkCfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		store:     store,
		answerer:  answerer,
		chunkCfg:  chunkCfg,
		logger:    logger,
	}, nil
}

// Ingest extracts, chunks and indexes one upload, returning a receipt
// with the fileID its chunks are stored under. The fileID is fresh per
// call: re-uploading the same file indexes a second independent copy.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename string) (Receipt, error) {
	var mu sync.Mutex
	return p.ingest(ctx, data, filename, &mu)
}

// IngestAll ingests the files at paths, extracting and chunking
// concurrently while serializing store writes. The first failure cancels
// the remaining work; receipts for files that completed before the
// failure are returned alongside the error.
func (p *Pipeline) IngestAll(ctx context.Context, paths []string) ([]Receipt, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var (
		mu       sync.Mutex
		receipts []Receipt
	)

	for _, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			receipt, err := p.ingest(gctx, data, filepath.Base(path), &mu)
			if err != nil {
				return err
			}

			mu.Lock()
			receipts = append(receipts, receipt)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return receipts, err
}

// ingest extracts and chunks without holding mu, then takes it for the
// store write so concurrent callers serialize their upserts.
func (p *Pipeline) ingest(ctx context.Context, data []byte, filename string, mu *sync.Mutex) (Receipt, error) {
	format, err := extract.ParseFormat(filename)
	if err != nil {
		return Receipt{}, err
	}

	doc, err := p.extractor.Extract(ctx, format, data, filename)
	if err != nil {
		return Receipt{}, fmt.Errorf("extracting %s: %w", filename, err)
	}

	fileID := uuid.NewString()
	chunks, err := document.Assemble(doc, fileID, p.chunkCfg)
	if err != nil {
		return Receipt{}, fmt.Errorf("chunking %s: %w", filename, err)
	}
	if len(chunks) == 0 {
		return Receipt{}, fmt.Errorf("%w in %s", ErrNoText, filename)
	}

	mu.Lock()
	err = p.store.Upsert(ctx, chunks)
	mu.Unlock()
	if err != nil {
		return Receipt{}, fmt.Errorf("indexing %s: %w", filename, err)
	}

	p.logger.Info("ingested file",
		"filename", filename,
		"file_id", fileID,
		"format", format.String(),
		"chunks", len(chunks),
	)

	return Receipt{
		FileID:   fileID,
		Filename: filename,
		Format:   format,
		Chunks:   len(chunks),
	}, nil
}

// Ask routes a question to the image path when image bytes are supplied,
// otherwise to document retrieval.
func (p *Pipeline) Ask(ctx context.Context, question string, image []byte) (*rag.Answer, error) {
	if len(image) > 0 {
		return p.answerer.AnswerImage(ctx, question, image)
	}
	return p.answerer.Answer(ctx, question)
}
