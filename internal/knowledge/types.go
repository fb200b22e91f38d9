package knowledge

import (
	"time"

	"github.com/koopa0/docqa/internal/document"
)

// Result is a single search hit: the stored chunk and its similarity to
// the query.
type Result struct {
	Chunk      document.Chunk
	Similarity float32 // cosine similarity (0-1)
}

// SearchOption configures search behavior using the functional options
// pattern.
type SearchOption func(*searchConfig)

// searchConfig holds internal search configuration.
type searchConfig struct {
	topK    int
	fileID  string
	timeout time.Duration
}

// DefaultTopK is the number of results returned when WithTopK is not given.
const DefaultTopK = 5

// defaultSearchTimeout bounds a single vector search, query embedding
// included.
const defaultSearchTimeout = 10 * time.Second

// WithTopK sets the maximum number of results to return.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithFile restricts results to chunks of a single upload.
func WithFile(fileID string) SearchOption {
	return func(c *searchConfig) {
		c.fileID = fileID
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    DefaultTopK,
		timeout: defaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
