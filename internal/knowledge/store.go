// Package knowledge persists document chunks with their embeddings and
// serves nearest-neighbor retrieval.
//
// The backing index is chromem-go: an embedded vector database whose
// persistent mode writes every document to disk at add time, so a batch is
// durable as soon as Upsert returns. Entries are keyed by
// "{fileID}_{index}", so re-uploads of a filename land on fresh keys
// instead of silently overwriting earlier entries.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	chromem "github.com/philippgille/chromem-go"

	"github.com/koopa0/docqa/internal/document"
)

// ErrEmptyIndex indicates a query against a store with no documents.
var ErrEmptyIndex = errors.New("no documents indexed")

// CollectionName is the chromem collection all chunks live in.
const CollectionName = "rag_docs"

// upsertConcurrency bounds parallel embedding calls inside one batch.
const upsertConcurrency = 4

// Store manages chunk persistence and vector similarity search.
//
// Store is safe for concurrent use: chromem guards its collections with
// its own locking, and per-key writes are atomic.
type Store struct {
	collection *chromem.Collection
	logger     *slog.Logger
}

// OpenDB opens (or creates) the persistent vector database at path.
// The returned DB survives process restarts.
func OpenDB(path string) (*chromem.DB, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database at %s: %w", path, err)
	}
	return db, nil
}

// New creates a Store over db, embedding content with the given embedder.
// A nil logger falls back to slog.Default().
func New(db *chromem.DB, embedder ai.Embedder, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	collection, err := db.GetOrCreateCollection(CollectionName, nil, NewEmbeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", CollectionName, err)
	}

	return &Store{
		collection: collection,
		logger:     logger,
	}, nil
}

// Upsert embeds and persists a batch of chunks. Writing an existing key
// replaces that entry; keys are fileID-scoped so this only happens when
// the same upload is re-ingested.
func (s *Store) Upsert(ctx context.Context, chunks []document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:       c.Key(),
			Content:  c.Text,
			Metadata: c.Metadata(),
		})
	}

	concurrency := upsertConcurrency
	if len(docs) < concurrency {
		concurrency = len(docs)
	}

	if err := s.collection.AddDocuments(ctx, docs, concurrency); err != nil {
		return fmt.Errorf("upserting %d chunks: %w", len(docs), err)
	}

	s.logger.Debug("upserted chunks",
		"count", len(chunks),
		"file_id", chunks[0].FileID,
		"filename", chunks[0].Filename,
	)
	return nil
}

// Search returns the chunks nearest to query, most similar first.
// An empty index fails with ErrEmptyIndex rather than an ambiguous empty
// result. The result length is at most the configured top-K, clamped to
// the number of stored documents.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	count := s.collection.Count()
	if count == 0 {
		return nil, ErrEmptyIndex
	}

	k := cfg.topK
	if k > count {
		k = count
	}

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var where map[string]string
	if cfg.fileID != "" {
		where = map[string]string{document.MetaFileID: cfg.fileID}
	}

	hits, err := s.collection.Query(queryCtx, query, k, where, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("vector search timeout: %w", err)
		}
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			Chunk:      document.FromMetadata(hit.Content, hit.Metadata),
			Similarity: hit.Similarity,
		})
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Close releases the store. chromem persists every write eagerly, so
// there is nothing to flush; Close exists for symmetric lifecycle wiring.
func (s *Store) Close() error {
	return nil
}

// DeleteFile removes every chunk of one upload.
func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return errors.New("fileID must not be empty")
	}

	where := map[string]string{document.MetaFileID: fileID}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("deleting chunks of file %q: %w", fileID, err)
	}

	s.logger.Debug("deleted file", "file_id", fileID)
	return nil
}
