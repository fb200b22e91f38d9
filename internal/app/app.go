// Package app provides application initialization and dependency wiring.
//
// App is the container assembled by Setup: configuration, logger, Genkit,
// the vector store and the ingestion pipeline, each constructed once and
// injected downward. Close releases what Setup acquired.
package app

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/koopa0/docqa/internal/config"
	"github.com/koopa0/docqa/internal/ingest"
	"github.com/koopa0/docqa/internal/knowledge"
	"github.com/koopa0/docqa/internal/log"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	Knowledge *knowledge.Store
	Pipeline  *ingest.Pipeline

	cancel context.CancelFunc
}

// Close gracefully shuts down the application. The vector store persists
// every write eagerly, so there is no flush to wait for.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Knowledge != nil {
		if err := a.Knowledge.Close(); err != nil {
			return fmt.Errorf("closing knowledge store: %w", err)
		}
	}
	if a.Logger != nil {
		a.Logger.Debug("application closed")
	}
	return nil
}
