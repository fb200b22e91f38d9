// Package cmd contains the docqa command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "docqa - ask questions about your documents",
	Long: `docqa ingests documents (PDF, DOCX, TXT, CSV, SQLite databases and
images) into a local vector index and answers natural-language questions
grounded in their content, with source citations.

Typical usage:

  docqa ingest report.pdf data.csv
  docqa ask "What were the Q3 revenue figures?"
  docqa ask --image receipt.png "What is the total amount?"`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
