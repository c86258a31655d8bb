// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/pdiddy/econsearch/internal/answer"
	"github.com/pdiddy/econsearch/internal/engine"
	"github.com/pdiddy/econsearch/internal/index"
	"github.com/pdiddy/econsearch/pkg/types"
)

// IngestFunc runs an ingestion pass and returns how many PDFs failed.
type IngestFunc func(cfg types.IngestConfig) (failed int, err error)

// Handlers holds the request handlers and their shared state. The search
// engine is created lazily on first use so the server can start before any
// index exists.
type Handlers struct {
	cfg      types.ServerConfig
	gen      answer.Generator
	texts    answer.TextLoader
	ingestFn IngestFunc

	mu  sync.Mutex
	eng *engine.Engine
}

// NewHandlers wires the handler set.
func NewHandlers(cfg types.ServerConfig, gen answer.Generator, texts answer.TextLoader, ingestFn IngestFunc) *Handlers {
	return &Handlers{cfg: cfg, gen: gen, texts: texts, ingestFn: ingestFn}
}

// getEngine returns the shared engine, creating it on first use and
// reloading it when forceReload is set.
func (h *Handlers) getEngine(forceReload bool) (*engine.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eng == nil {
		eng, err := engine.New(h.cfg.Search.IndexPath)
		if err != nil {
			return nil, err
		}
		h.eng = eng
		return h.eng, nil
	}
	if forceReload {
		if err := h.eng.Reload(); err != nil {
			return nil, err
		}
	}
	return h.eng, nil
}

// Reload refreshes the engine from disk. Used by the file watcher.
func (h *Handlers) Reload() error {
	_, err := h.getEngine(true)
	return err
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) HandleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "EconSearch API is running. Use /health, /ingest, /ask, /search, or /reload for programmatic access.",
	})
}

// HandleRoot serves the UI entry point.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	indexHTML := indexHTMLPath(h.cfg.StaticDir)
	if !fileExists(indexHTML) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "UI assets not found. Regenerate static files."})
		return
	}
	http.ServeFile(w, r, indexHTML)
}

type ingestRequest struct {
	PDFDir  string `json:"pdf_dir"`
	Workers int    `json:"workers"`
}

type ingestResponse struct {
	TotalPapers int    `json:"total_papers"`
	IndexPath   string `json:"index_path"`
	Failed      int    `json:"failed,omitempty"`
}

func (h *Handlers) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	cfg := h.cfg.Ingest
	if req.PDFDir != "" {
		cfg.PDFDir = req.PDFDir
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if cfg.PDFDir == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pdf_dir is required"})
		return
	}

	failed, err := h.ingestFn(cfg)
	if err != nil {
		log.Printf("ingest error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	eng, err := h.getEngine(true)
	if err != nil {
		log.Printf("reload after ingest: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		TotalPapers: eng.Len(),
		IndexPath:   cfg.IndexPath,
		Failed:      failed,
	})
}

type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

func (h *Handlers) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	eng, err := h.getEngine(false)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	pipeline := answer.NewPipeline(eng, h.gen, h.texts)
	writeJSON(w, http.StatusOK, pipeline.Ask(r.Context(), req.Question, req.TopK))
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter 'q'"})
		return
	}

	topK := h.cfg.Search.TopK
	if topK <= 0 {
		topK = 5
	}
	if s := r.URL.Query().Get("top_k"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			topK = n
		}
	}

	eng, err := h.getEngine(false)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	results := eng.Search(query, topK)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"total":   len(results),
	})
}

func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if _, err := h.getEngine(true); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// writeEngineError maps engine failures to status codes. A missing or empty
// index is the caller's problem, anything else is ours.
func (h *Handlers) writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, index.ErrMissing) || errors.Is(err, engine.ErrIndexEmpty) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No paper index found. Run /ingest first."})
		return
	}
	log.Printf("engine error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
