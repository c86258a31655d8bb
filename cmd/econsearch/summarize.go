// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/econsearch/internal/index"
	"github.com/pdiddy/econsearch/internal/llm"
	"github.com/pdiddy/econsearch/internal/pdfio"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [pdf-path]",
	Short: "Summarize a single paper with the chat model",
	Long: `Summarize extracts the text of one PDF and asks the configured chat
model for a structured summary: research question, methodology, key
findings and limitations. The paper's indexed title is used when the
path is already in the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path := args[0]
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	client, err := llm.New(aiConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	loader := pdfio.NewFullTextLoader(pdfio.DefaultFullTextCacheSize)
	text, err := loader.Load(path, maxPages, 0)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}

	title := indexedTitle(indexPathFromFlags(cmd), path)
	if title == "" {
		title = path
	}

	fmt.Println(client.SummarizeDocument(context.Background(), title, text))
	return nil
}

// indexedTitle looks the path up in the paper index. A missing or corrupt
// index just means no title.
func indexedTitle(indexPath, pdfPath string) string {
	records, err := index.Load(indexPath)
	if err != nil {
		return ""
	}
	for _, r := range records {
		if r.PDFPath == pdfPath || strings.HasSuffix(r.PDFPath, pdfPath) {
			return r.Title
		}
	}
	return ""
}

func init() {
	summarizeCmd.Flags().String("index", "", "paper index file used to resolve the title")
	summarizeCmd.Flags().Int("max-pages", 0, "pages to read from the PDF (0 = all)")
	summarizeCmd.Flags().String("provider", "", "chat provider: shubiaobiao or deepseek")
	summarizeCmd.Flags().String("model", "", "chat model identifier (default: provider preset)")

	rootCmd.AddCommand(summarizeCmd)
}
