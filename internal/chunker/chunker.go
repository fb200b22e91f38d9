// Package chunker splits extracted text into overlapping retrieval chunks.
//
// The unit boundary is the line break: a unit ends at every "\n" (blank
// lines included), and whitespace-only units are discarded. This is a
// coarse proxy for a sentence. Downstream behavior was tuned against this
// exact definition, so the package does not attempt true sentence
// segmentation.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig indicates a chunking configuration that can never
// produce a valid window sequence.
var ErrInvalidConfig = errors.New("invalid chunking configuration")

// Joiner is the separator units are joined with inside a chunk. Re-splitting
// a chunk on Joiner recovers the original unit sequence.
const Joiner = "\n"

const (
	// DefaultSize is the default number of units per chunk.
	DefaultSize = 5

	// DefaultOverlap is the default number of units shared between
	// consecutive chunks.
	DefaultOverlap = 1
)

// Config controls the sliding window.
//
// Larger Size widens the context carried by each retrieved chunk at the
// cost of recall granularity; larger Overlap reduces information loss at
// chunk boundaries at the cost of redundant storage.
type Config struct {
	Size    int // units per chunk
	Overlap int // units shared with the previous chunk
}

// DefaultConfig returns the production chunking configuration.
func DefaultConfig() Config {
	return Config{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Validate fails fast on configurations that would stall the window:
// Overlap >= Size makes the advance step non-positive, looping forever on
// the first window.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfig, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidConfig, c.Overlap, c.Size)
	}
	return nil
}

// Split tokenizes text into line-delimited units and emits overlapping
// windows of cfg.Size units joined with Joiner.
//
// The window start advances by Size-Overlap units per step. The final
// window is emitted even when fewer than Size units remain, so the last
// chunk may be short and may overlap the second-to-last. Text with no
// non-empty units yields no chunks.
func Split(text string, cfg Config) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	units := Tokenize(text)
	if len(units) == 0 {
		return nil, nil
	}

	step := cfg.Size - cfg.Overlap
	var chunks []string
	for start := 0; start < len(units); start += step {
		end := start + cfg.Size
		if end > len(units) {
			end = len(units)
		}
		chunks = append(chunks, strings.Join(units[start:end], Joiner))
	}
	return chunks, nil
}

// Tokenize splits text into units at line-break boundaries, trimming each
// unit and discarding whitespace-only ones.
func Tokenize(text string) []string {
	var units []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			units = append(units, trimmed)
		}
	}
	return units
}
