// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// IngestConfig holds settings for the ingestion stage.
type IngestConfig struct {
	// PDFDir is the directory scanned recursively for *.pdf files.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// IndexPath is the JSON index file to create or update.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// FTSPath is the SQLite FTS sidecar database. Empty disables the sidecar.
	FTSPath string `json:"fts_path,omitempty" yaml:"fts_path,omitempty"`

	// Workers is the number of concurrent extraction workers.
	// Zero means min(4, available CPUs).
	Workers int `json:"workers" yaml:"workers"`
}

// SearchConfig holds settings for query-time retrieval.
type SearchConfig struct {
	// IndexPath is the JSON index file to search.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// FTSPath is the SQLite FTS sidecar database for keyword queries.
	FTSPath string `json:"fts_path,omitempty" yaml:"fts_path,omitempty"`

	// TopK is the default number of results to return (default 5).
	TopK int `json:"top_k" yaml:"top_k"`
}

// AIConfig holds settings for the text-generation service.
type AIConfig struct {
	// Provider selects a named provider preset (e.g. "shubiaobiao", "deepseek").
	Provider string `json:"provider" yaml:"provider"`

	// BaseURL overrides the provider's chat-completions endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the chat model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates requests. Usually loaded from .secrets/ or env.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8990").
	Addr string `json:"addr" yaml:"addr"`

	// StaticDir serves UI assets when it exists. Empty disables the mount.
	StaticDir string `json:"static_dir,omitempty" yaml:"static_dir,omitempty"`

	// Watch re-ingests the PDF directory when files change.
	Watch bool `json:"watch" yaml:"watch"`

	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Search SearchConfig `json:"search" yaml:"search"`
	AI     AIConfig     `json:"ai" yaml:"ai"`
}
