// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/econsearch/internal/ingest"
	"github.com/pdiddy/econsearch/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf-dir]",
	Short: "Extract metadata from PDFs and build the paper index",
	Long: `Ingest scans a directory tree for PDF files, extracts title, authors,
abstract, year and keywords from each, and merges the records into the
JSON paper index. Already-indexed files are skipped, so re-running over
the same directory is cheap.

With --fts-path, the keyword-search sidecar database is rebuilt from the
merged index after ingestion. The sidecar needs a binary built with the
sqlite_fts5 tag (mage build does this).`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfigFromFlags(cmd, args)

	summary, _, err := ingest.Run(cfg, ingest.ExtractPDF, os.Stdout)
	if err != nil {
		return err
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed extraction", summary.Failed)
	}
	return nil
}

func ingestConfigFromFlags(cmd *cobra.Command, args []string) types.IngestConfig {
	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	if pdfDir == "" && len(args) > 0 {
		pdfDir = args[0]
	}
	if pdfDir == "" {
		pdfDir = viper.GetString("pdf_dir")
	}
	workers, _ := cmd.Flags().GetInt("workers")

	return types.IngestConfig{
		PDFDir:    pdfDir,
		IndexPath: indexPathFromFlags(cmd),
		FTSPath:   ftsPathFromFlags(cmd),
		Workers:   workers,
	}
}

func init() {
	ingestCmd.Flags().String("pdf-dir", "", "directory containing PDF files to ingest")
	ingestCmd.Flags().String("index", "", "paper index file (default: storage/paper_index.json)")
	ingestCmd.Flags().String("fts-path", "", "keyword-search sidecar database to rebuild after ingest")
	ingestCmd.Flags().Int("workers", 0, "concurrent extraction workers (0 = min(4, CPUs))")

	rootCmd.AddCommand(ingestCmd)
}
