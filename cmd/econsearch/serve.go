// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/econsearch/internal/ingest"
	"github.com/pdiddy/econsearch/internal/llm"
	"github.com/pdiddy/econsearch/internal/pdfio"
	"github.com/pdiddy/econsearch/internal/server"
	"github.com/pdiddy/econsearch/internal/watch"
	"github.com/pdiddy/econsearch/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the paper index over HTTP: /search and /ask for queries,
/ingest and /reload for index management, /health and /info for
monitoring. With --watch, changes in the PDF directory trigger an
automatic re-ingest and reload.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := serverConfigFromFlags(cmd)

	client, err := llm.New(cfg.AI)
	if err != nil {
		return err
	}

	loader := pdfio.NewFullTextLoader(pdfio.DefaultFullTextCacheSize)
	handlers := server.NewHandlers(cfg, client, loader, func(ic types.IngestConfig) (int, error) {
		summary, _, err := ingest.Run(ic, ingest.ExtractPDF, io.Discard)
		return summary.Failed, err
	})
	srv := server.New(cfg, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		w, err := watch.New(cfg.Ingest.PDFDir, watch.DefaultDebounce, func() error {
			if _, _, err := ingest.Run(cfg.Ingest, ingest.ExtractPDF, io.Discard); err != nil {
				return err
			}
			return handlers.Reload()
		})
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Close()
		go w.Run(ctx)
		fmt.Fprintf(os.Stderr, "Watching %s for new PDFs\n", cfg.Ingest.PDFDir)
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on http://localhost%s\n", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func serverConfigFromFlags(cmd *cobra.Command) types.ServerConfig {
	addr, _ := cmd.Flags().GetString("addr")
	staticDir, _ := cmd.Flags().GetString("static-dir")
	watchFlag, _ := cmd.Flags().GetBool("watch")
	topK, _ := cmd.Flags().GetInt("top-k")
	if topK <= 0 {
		topK = viper.GetInt("top_k")
	}

	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	if pdfDir == "" {
		pdfDir = viper.GetString("pdf_dir")
	}

	indexPath := indexPathFromFlags(cmd)
	return types.ServerConfig{
		Addr:      addr,
		StaticDir: staticDir,
		Watch:     watchFlag,
		Ingest: types.IngestConfig{
			PDFDir:    pdfDir,
			IndexPath: indexPath,
			FTSPath:   ftsPathFromFlags(cmd),
		},
		Search: types.SearchConfig{
			IndexPath: indexPath,
			FTSPath:   ftsPathFromFlags(cmd),
			TopK:      topK,
		},
		AI: aiConfigFromFlags(cmd),
	}
}

func init() {
	serveCmd.Flags().String("addr", ":8990", "listen address")
	serveCmd.Flags().String("static-dir", "static", "directory with UI assets (mounted when it exists)")
	serveCmd.Flags().String("pdf-dir", "", "directory containing PDF files (for /ingest and --watch)")
	serveCmd.Flags().String("index", "", "paper index file (default: storage/paper_index.json)")
	serveCmd.Flags().String("fts-path", "", "keyword-search sidecar database")
	serveCmd.Flags().Int("top-k", 0, "default result count for /search")
	serveCmd.Flags().String("provider", "", "chat provider: shubiaobiao or deepseek")
	serveCmd.Flags().String("model", "", "chat model identifier (default: provider preset)")
	serveCmd.Flags().Bool("watch", false, "re-ingest automatically when the PDF directory changes")

	rootCmd.AddCommand(serveCmd)
}
