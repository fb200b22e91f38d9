package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koopa0/docqa/internal/app"
	"github.com/koopa0/docqa/internal/config"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Extract, chunk and index documents",
	Long: `Ingest reads each file, extracts its text, splits it into overlapping
chunks and indexes them in the local vector store. Supported formats:
.pdf, .docx, .txt, .csv, .db, .sqlite3, .jpg, .jpeg, .png.

Each upload gets a fresh file ID; re-ingesting a file indexes a second
independent copy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := cmd.Context()

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = a.Close()
	}()

	receipts, err := a.Pipeline.IngestAll(ctx, args)
	for _, r := range receipts {
		fmt.Printf("indexed %s: %d chunks (file ID %s)\n", r.Filename, r.Chunks, r.FileID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%d file(s) ingested, %d chunks total in store\n", len(receipts), a.Knowledge.Count())
	return nil
}
