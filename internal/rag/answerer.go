package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/koopa0/docqa/internal/document"
	"github.com/koopa0/docqa/internal/knowledge"
	"github.com/koopa0/docqa/internal/ocr"
	"github.com/koopa0/docqa/internal/retry"
)

// AnswerTopK is the number of chunks retrieved as context per question.
const AnswerTopK = 5

// Canonical sentinel phrases the model is instructed to return when the
// context does not contain the answer.
const (
	NotInDocument = "The answer is not available in the provided document."
	NotInImage    = "The answer is not available in the provided image."
)

// documentSystemPrompt instructs the model to answer strictly from the
// retrieved context.
const documentSystemPrompt = "You are an expert document assistant. " +
	"Analyze the document and answer the user's questions elaborately " +
	"using only the information provided in the context below. " +
	"If the answer is not explicitly stated or cannot be confidently inferred, " +
	"say '" + NotInDocument + "'"

// imageSystemPrompt is the variant for the stateless image path.
const imageSystemPrompt = "You are an expert image-based text analyzing assistant. " +
	"Analyze the image's text content and answer the user's questions elaborately " +
	"using only the information provided in the context below. " +
	"If the answer is not explicitly stated or cannot be confidently inferred, " +
	"say '" + NotInImage + "'"

// Answerer produces grounded answers with source citations.
type Answerer struct {
	generator Generator
	searcher  Searcher
	engine    ocr.Engine
	modelName string
	topK      int
	logger    *slog.Logger
}

// NewAnswerer creates an Answerer. modelName is the provider-qualified
// model identifier (e.g. "googleai/gemini-2.5-flash"). topK <= 0 falls
// back to AnswerTopK; a nil logger falls back to slog.Default().
func NewAnswerer(generator Generator, searcher Searcher, engine ocr.Engine, modelName string, topK int, logger *slog.Logger) *Answerer {
	if topK <= 0 {
		topK = AnswerTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Answerer{
		generator: generator,
		searcher:  searcher,
		engine:    engine,
		modelName: modelName,
		topK:      topK,
		logger:    logger,
	}
}

// Answer retrieves the chunks most relevant to question and asks the
// model to answer from them alone.
//
// knowledge.ErrEmptyIndex propagates when nothing has been ingested yet.
// Near-identical chunks are not deduplicated; the context carries them in
// descending relevance order exactly as retrieved.
func (a *Answerer) Answer(ctx context.Context, question string) (*Answer, error) {
	results, err := a.searcher.Search(ctx, question, knowledge.WithTopK(a.topK))
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	sources := make([]document.Chunk, 0, len(results))
	texts := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.Chunk)
		texts = append(texts, r.Chunk.Text)
	}
	contextBlock := strings.Join(texts, "\n\n")

	userMessage := fmt.Sprintf("Document:\n%s\n\nQuestion: %s", contextBlock, question)

	text, err := a.generate(ctx, documentSystemPrompt, userMessage)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("answered question",
		"sources", len(sources),
		"question_length", len(question),
	)

	return &Answer{
		Text:    text,
		Sources: sources,
	}, nil
}

// AnswerImage answers a question about the supplied image without
// consulting the vector index: the image's OCR text becomes inline
// context for a single model call.
func (a *Answerer) AnswerImage(ctx context.Context, question string, image []byte) (*Answer, error) {
	extracted, err := a.engine.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("ocr on query image: %w", err)
	}

	augmented := question +
		"Respond based on the below context that is extracted from single or multiple image:\n" +
		extracted
	userMessage := fmt.Sprintf("Question: %s", augmented)

	text, err := a.generate(ctx, imageSystemPrompt, userMessage)
	if err != nil {
		return nil, err
	}

	return &Answer{Text: text}, nil
}

// generate calls the model with bounded backoff on transient provider
// failures.
func (a *Answerer) generate(ctx context.Context, system, user string) (string, error) {
	var text string

	err := retry.Do(ctx, retry.DefaultMaxRetries, func() error {
		resp, err := a.generator.Generate(ctx,
			ai.WithModelName(a.modelName),
			ai.WithSystem(system),
			ai.WithMessages(ai.NewUserTextMessage(user)),
		)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(resp.Text())
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	return text, nil
}
