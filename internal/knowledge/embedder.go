package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	chromem "github.com/philippgille/chromem-go"

	"github.com/koopa0/docqa/internal/retry"
)

// NewEmbeddingFunc bridges a Genkit ai.Embedder to chromem-go's
// EmbeddingFunc. chromem normalizes vectors itself, so no manual
// normalization is needed.
//
// Provider calls are wrapped with bounded exponential backoff: transient
// failures (rate limits, 5xx, network) are retried, everything else is
// surfaced immediately.
func NewEmbeddingFunc(embedder ai.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		var embedding []float32

		err := retry.Do(ctx, retry.DefaultMaxRetries, func() error {
			resp, err := embedder.Embed(ctx, &ai.EmbedRequest{
				Input: []*ai.Document{
					ai.DocumentFromText(text, nil),
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
				return errors.New("empty embedding returned")
			}
			embedding = resp.Embeddings[0].Embedding
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("embed failed: %w", err)
		}

		return embedding, nil
	}
}
