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

	"github.com/pdiddy/econsearch/internal/engine"
	"github.com/pdiddy/econsearch/internal/fts"
	"github.com/pdiddy/econsearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank indexed papers against a free-text query",
	Long: `Search scores every indexed paper against the query using term-weighted
vectors and prints the best matches. With --fts the query runs against
the keyword-search sidecar database instead, using full-text match
semantics and BM25 ranking. The sidecar needs a binary built with the
sqlite_fts5 tag (mage build does this).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	topK, _ := cmd.Flags().GetInt("top-k")
	if topK <= 0 {
		topK = viper.GetInt("top_k")
	}

	useFTS, _ := cmd.Flags().GetBool("fts")

	var results []types.SearchResult
	if useFTS {
		ftsPath := ftsPathFromFlags(cmd)
		if ftsPath == "" {
			return fmt.Errorf("keyword search needs a sidecar database: set --fts-path or fts_path in the config")
		}

		store, err := fts.Open(ftsPath)
		if err != nil {
			return err
		}
		defer store.Close()

		results, err = store.Search(context.Background(), query, topK)
		if err != nil {
			return err
		}
	} else {
		eng, err := engine.New(indexPathFromFlags(cmd))
		if err != nil {
			return err
		}
		results = eng.Search(query, topK)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []types.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-50s  %-6s  %s\n",
		"Rank", "Score", "Title", "Year", "Authors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		year := ""
		if r.Year != nil {
			year = fmt.Sprintf("%d", *r.Year)
		}
		authors := strings.Join(r.Authors, ", ")
		if len(authors) > 30 {
			authors = authors[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-8.4f  %-50s  %-6s  %s\n",
			i+1, r.Score, title, year, authors)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func init() {
	searchCmd.Flags().String("index", "", "paper index file (default: storage/paper_index.json)")
	searchCmd.Flags().String("fts-path", "", "keyword-search sidecar database")
	searchCmd.Flags().Int("top-k", 0, "maximum results (0 = config default)")
	searchCmd.Flags().Bool("fts", false, "query the keyword-search sidecar instead of the vector index")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
