// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/econsearch/internal/index"
	"github.com/pdiddy/econsearch/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the paper index to YAML or JSON",
	Long: `Export writes the full paper index to a YAML or JSON file, for use in
reading lists, spreadsheets, or other tools. The output carries the same
records as the index: title, authors, abstract, year, keywords and the
source PDF path.`,
	RunE: runExport,
}

// exportDocument wraps the records with a small header.
type exportDocument struct {
	TotalPapers int                 `json:"total_papers" yaml:"total_papers"`
	IndexPath   string              `json:"index_path" yaml:"index_path"`
	Papers      []types.PaperRecord `json:"papers" yaml:"papers"`
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	indexPath := indexPathFromFlags(cmd)

	records, err := index.Load(indexPath)
	if err != nil {
		return err
	}

	doc := exportDocument{
		TotalPapers: len(records),
		IndexPath:   indexPath,
		Papers:      records,
	}

	var data []byte
	switch format {
	case "yaml", "":
		data, err = yaml.Marshal(doc)
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if out == "" || out == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Exported %d papers to %s\n", len(records), out)
	return nil
}

func init() {
	exportCmd.Flags().String("index", "", "paper index file (default: storage/paper_index.json)")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
