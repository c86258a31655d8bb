// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the paper index over HTTP: ingestion, vector
// search, question answering and index reloads.
package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/econsearch/pkg/types"
)

// New builds the HTTP server. Static assets are served from
// cfg.StaticDir under /static when the directory exists.
func New(cfg types.ServerConfig, handlers *Handlers) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HandleHealth)
	mux.HandleFunc("/info", handlers.HandleInfo)
	mux.HandleFunc("/ingest", handlers.HandleIngest)
	mux.HandleFunc("/ask", handlers.HandleAsk)
	mux.HandleFunc("/search", handlers.HandleSearch)
	mux.HandleFunc("/reload", handlers.HandleReload)
	mux.HandleFunc("/", handlers.HandleRoot)

	if dirExists(cfg.StaticDir) {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	return &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// indexHTMLPath returns the UI entry point inside the static directory.
func indexHTMLPath(staticDir string) string {
	if staticDir == "" {
		return ""
	}
	return filepath.Join(staticDir, "index.html")
}
