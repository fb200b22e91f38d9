// Package rag answers natural-language questions from indexed documents.
//
// The write path lives in internal/ingest; this package owns the read
// path: retrieve the top-K chunks for a question, assemble them into a
// context block, and ask the model to answer strictly from that context.
// Retrieved chunks travel back with the answer so callers can cite
// sources.
//
// A second, stateless path answers questions about a supplied image: the
// image's OCR text is folded into the question and sent straight to the
// model, never touching the vector index.
package rag

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/koopa0/docqa/internal/document"
	"github.com/koopa0/docqa/internal/knowledge"
)

// Answer is the result of one question: the model's text plus the chunks
// that were supplied as context, in descending relevance order. Every
// retrieved chunk is listed, whether or not it materially contributed;
// consumers decide how to display provenance.
type Answer struct {
	Text    string
	Sources []document.Chunk
}

// Generator abstracts model text generation. It is satisfied by
// GenkitGenerator in production and by mocks in tests; the interface lives
// here, on the consumer side.
type Generator interface {
	Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error)
}

// Searcher is the retrieval dependency, satisfied by *knowledge.Store.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// GenkitGenerator adapts a Genkit instance to the Generator interface.
type GenkitGenerator struct {
	g *genkit.Genkit
}

// NewGenkitGenerator wraps g for use as a Generator.
func NewGenkitGenerator(g *genkit.Genkit) *GenkitGenerator {
	return &GenkitGenerator{g: g}
}

func (gg *GenkitGenerator) Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
	return genkit.Generate(ctx, gg.g, opts...)
}
