// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/econsearch/internal/index"
	"github.com/pdiddy/econsearch/pkg/types"
)

type stubGenerator struct{}

func (stubGenerator) GenerateKeywords(_ context.Context, question string, n int) []string {
	return []string{question}
}

func (stubGenerator) AnswerWithContext(_ context.Context, _ string, contexts []string) string {
	return "stub answer from " + strings.Join(contexts, "|")
}

type stubLoader struct{}

func (stubLoader) Load(path string, maxPages, maxChars int) (string, error) {
	return "full text of " + path, nil
}

func testRecords() []types.PaperRecord {
	year := 2020
	return []types.PaperRecord{
		{
			PDFPath:  "/papers/tax.pdf",
			Title:    "Taxation and Growth",
			Abstract: "We study how corporate taxation shapes long-run growth.",
			Year:     &year,
			Authors:  []string{"Jane Doe"},
		},
		{
			PDFPath:  "/papers/trade.pdf",
			Title:    "Trade Shocks and Employment",
			Abstract: "Import competition and local labor markets.",
		},
	}
}

// newTestServer writes an index with the given records (nil skips writing)
// and returns the HTTP test server plus its handlers.
func newTestServer(t *testing.T, records []types.PaperRecord, ingestFn IngestFunc) (*httptest.Server, *Handlers) {
	t.Helper()
	indexPath := filepath.Join(t.TempDir(), "paper_index.json")
	if records != nil {
		if err := index.Save(indexPath, records); err != nil {
			t.Fatalf("saving index: %v", err)
		}
	}

	cfg := types.ServerConfig{
		Ingest: types.IngestConfig{IndexPath: indexPath},
		Search: types.SearchConfig{IndexPath: indexPath, TopK: 5},
	}
	handlers := NewHandlers(cfg, stubGenerator{}, stubLoader{}, ingestFn)
	srv := httptest.NewServer(New(cfg, handlers).Handler)
	t.Cleanup(srv.Close)
	return srv, handlers
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)
	var got map[string]string
	if status := getJSON(t, srv.URL+"/health", &got); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestInfo(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)
	var got map[string]string
	getJSON(t, srv.URL+"/info", &got)
	if !strings.Contains(got["message"], "EconSearch API is running") {
		t.Errorf("message = %q", got["message"])
	}
}

func TestSearch(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)

	var got struct {
		Query   string               `json:"query"`
		Results []types.SearchResult `json:"results"`
		Total   int                  `json:"total"`
	}
	status := getJSON(t, srv.URL+"/search?q=taxation+growth&top_k=1", &got)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got.Total != 1 || len(got.Results) != 1 {
		t.Fatalf("total = %d, results = %d", got.Total, len(got.Results))
	}
	if got.Results[0].Title != "Taxation and Growth" {
		t.Errorf("top result = %q", got.Results[0].Title)
	}
	if got.Results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", got.Results[0].Score)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)
	var got map[string]string
	if status := getJSON(t, srv.URL+"/search", &got); status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)
	var got map[string]string
	if status := getJSON(t, srv.URL+"/search?q=tax", &got); status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if got["error"] != "No paper index found. Run /ingest first." {
		t.Errorf("error = %q", got["error"])
	}
}

func TestAsk(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)

	var got struct {
		Answer   string               `json:"answer"`
		Keywords []string             `json:"keywords"`
		Sources  []types.SearchResult `json:"sources"`
	}
	status := postJSON(t, srv.URL+"/ask", `{"question":"corporate taxation","top_k":1}`, &got)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(got.Answer, "stub answer") {
		t.Errorf("answer = %q", got.Answer)
	}
	if !strings.Contains(got.Answer, "full text of /papers/tax.pdf") {
		t.Errorf("answer context missing full text: %q", got.Answer)
	}
	if len(got.Sources) != 1 || got.Sources[0].Title != "Taxation and Growth" {
		t.Errorf("sources = %+v", got.Sources)
	}
}

func TestAskValidation(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)

	var got map[string]string
	if status := postJSON(t, srv.URL+"/ask", `{"top_k":1}`, &got); status != http.StatusBadRequest {
		t.Errorf("empty question: status = %d", status)
	}
	if status := postJSON(t, srv.URL+"/ask", `not json`, &got); status != http.StatusBadRequest {
		t.Errorf("bad body: status = %d", status)
	}

	resp, err := http.Get(srv.URL + "/ask")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /ask: status = %d", resp.StatusCode)
	}
}

func TestAskWithoutIndex(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)
	var got map[string]string
	status := postJSON(t, srv.URL+"/ask", `{"question":"anything"}`, &got)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if got["error"] != "No paper index found. Run /ingest first." {
		t.Errorf("error = %q", got["error"])
	}
}

func TestIngestRunsAndReloads(t *testing.T) {
	var gotCfg types.IngestConfig
	ingestFn := func(cfg types.IngestConfig) (int, error) {
		gotCfg = cfg
		return 0, index.Save(cfg.IndexPath, testRecords())
	}
	srv, _ := newTestServer(t, nil, ingestFn)

	var got struct {
		TotalPapers int    `json:"total_papers"`
		IndexPath   string `json:"index_path"`
	}
	status := postJSON(t, srv.URL+"/ingest", `{"pdf_dir":"/papers","workers":2}`, &got)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if gotCfg.PDFDir != "/papers" || gotCfg.Workers != 2 {
		t.Errorf("ingest cfg = %+v", gotCfg)
	}
	if got.TotalPapers != 2 {
		t.Errorf("total_papers = %d, want 2", got.TotalPapers)
	}

	// The freshly built index is immediately searchable.
	var search map[string]any
	if s := getJSON(t, srv.URL+"/search?q=taxation", &search); s != http.StatusOK {
		t.Errorf("search after ingest: status = %d", s)
	}
}

func TestIngestRequiresPDFDir(t *testing.T) {
	srv, _ := newTestServer(t, nil, func(types.IngestConfig) (int, error) { return 0, nil })
	var got map[string]string
	if status := postJSON(t, srv.URL+"/ingest", `{}`, &got); status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
}

func TestReloadPicksUpIndexChanges(t *testing.T) {
	srv, handlers := newTestServer(t, testRecords(), nil)

	// Force engine creation, then grow the index behind its back.
	var search map[string]any
	getJSON(t, srv.URL+"/search?q=taxation", &search)

	records := append(testRecords(), types.PaperRecord{
		PDFPath:  "/papers/banks.pdf",
		Title:    "Bank Lending Channels",
		Abstract: "Monetary transmission through bank balance sheets.",
	})
	if err := index.Save(handlers.cfg.Search.IndexPath, records); err != nil {
		t.Fatal(err)
	}

	var got map[string]string
	if status := postJSON(t, srv.URL+"/reload", `{}`, &got); status != http.StatusOK {
		t.Fatalf("reload status = %d", status)
	}
	if got["status"] != "reloaded" {
		t.Errorf("body = %v", got)
	}

	var after struct {
		Results []types.SearchResult `json:"results"`
	}
	getJSON(t, srv.URL+"/search?q=bank+lending&top_k=1", &after)
	if len(after.Results) != 1 || after.Results[0].Title != "Bank Lending Channels" {
		t.Errorf("results = %+v", after.Results)
	}
}

func TestRootWithoutStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t, testRecords(), nil)
	var got map[string]string
	if status := getJSON(t, srv.URL+"/", &got); status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", status)
	}
}
