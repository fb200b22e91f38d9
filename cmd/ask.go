package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koopa0/docqa/internal/app"
	"github.com/koopa0/docqa/internal/config"
)

var (
	imagePath   string
	showSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed documents",
	Long: `Ask retrieves the chunks most relevant to the question from the vector
store and answers strictly from that context, citing its sources.

With --image the question is answered from the image's OCR text alone,
without consulting the store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&imagePath, "image", "", "answer from this image instead of the document index")
	askCmd.Flags().BoolVar(&showSources, "sources", true, "print the chunks the answer was grounded in")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question cannot be empty")
	}

	var image []byte
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading image %s: %w", imagePath, err)
		}
		image = data
	}

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

	answer, err := a.Pipeline.Ask(ctx, question, image)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)

	if showSources && len(answer.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range answer.Sources {
			if src.Page > 0 {
				fmt.Printf("  %s (page %d, chunk %d)\n", src.Filename, src.Page, src.Index)
			} else {
				fmt.Printf("  %s (chunk %d)\n", src.Filename, src.Index)
			}
		}
	}

	return nil
}
