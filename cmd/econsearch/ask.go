// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/econsearch/internal/answer"
	"github.com/pdiddy/econsearch/internal/engine"
	"github.com/pdiddy/econsearch/internal/llm"
	"github.com/pdiddy/econsearch/internal/pdfio"
	"github.com/pdiddy/econsearch/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed papers with citations",
	Long: `Ask expands the question into search keywords with the configured chat
model, aggregates the best-matching papers across all keywords, and
generates an answer grounded in their abstracts and opening pages.
Sources are cited inline as [Source N].

Without a reachable model, keywords fall back to terms from the
question itself and the answer explains the failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	topK, _ := cmd.Flags().GetInt("top-k")

	eng, err := engine.New(indexPathFromFlags(cmd))
	if err != nil {
		return err
	}

	client, err := llm.New(aiConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	loader := pdfio.NewFullTextLoader(pdfio.DefaultFullTextCacheSize)
	pipeline := answer.NewPipeline(eng, client, loader)
	resp := pipeline.Ask(context.Background(), question, topK)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Answer)
	if len(resp.Keywords) > 0 {
		fmt.Fprintf(os.Stdout, "\nKeywords: %s\n", strings.Join(resp.Keywords, ", "))
	}
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range resp.Sources {
			year := ""
			if src.Year != nil {
				year = fmt.Sprintf(" (%d)", *src.Year)
			}
			fmt.Fprintf(os.Stdout, "  [%d] %s%s  score=%.4f\n      %s\n",
				i+1, src.Title, year, src.Score, src.PDFPath)
		}
	}
	return nil
}

// aiConfigFromFlags assembles the generation settings from flags, config
// and secrets. The API key resolves OPENAI_API_KEY first, then the
// .secrets/ directory.
func aiConfigFromFlags(cmd *cobra.Command) types.AIConfig {
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = viper.GetString("ai.provider")
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}

	apiKey := secretDefault("openai-api-key", os.Getenv("OPENAI_API_KEY"))
	if provider == "deepseek" && apiKey == "" {
		apiKey = secretDefault("deepseek-api-key", "")
	}

	return types.AIConfig{
		Provider: provider,
		BaseURL:  viper.GetString("ai.base_url"),
		Model:    model,
		APIKey:   apiKey,
	}
}

func init() {
	askCmd.Flags().String("index", "", "paper index file (default: storage/paper_index.json)")
	askCmd.Flags().Int("top-k", answer.DefaultTopK, "maximum papers to feed into the model")
	askCmd.Flags().String("provider", "", "chat provider: shubiaobiao or deepseek")
	askCmd.Flags().String("model", "", "chat model identifier (default: provider preset)")
	askCmd.Flags().Bool("json", false, "output the full response as JSON")

	rootCmd.AddCommand(askCmd)
}
