package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koopa0/docqa/internal/app"
	"github.com/koopa0/docqa/internal/config"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <file-id>",
	Short: "Remove every chunk of one ingested file",
	Long: `Forget deletes all chunks stored under the given file ID, as printed by
the ingest command. Other uploads, including ones sharing the same
filename, are unaffected.`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
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

	if err := a.Knowledge.DeleteFile(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("forgot file %s, %d chunks remain in store\n", args[0], a.Knowledge.Count())
	return nil
}
