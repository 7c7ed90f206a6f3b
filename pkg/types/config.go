// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SummarizeConfig holds settings for sentence ranking and selection.
type SummarizeConfig struct {
	// MaxWords is the default word budget for a summary (default 500).
	MaxWords int `json:"max_words" yaml:"max_words" mapstructure:"max_words"`

	// Damping is the TextRank damping factor (default 0.85).
	Damping float64 `json:"damping" yaml:"damping" mapstructure:"damping"`

	// MaxIter caps the number of power-iteration steps (default 50).
	MaxIter int `json:"max_iter" yaml:"max_iter" mapstructure:"max_iter"`

	// Tolerance is the L1 convergence threshold (default 1e-4).
	Tolerance float64 `json:"tolerance" yaml:"tolerance" mapstructure:"tolerance"`
}

// IngestBackend identifies the PDF text extraction tool.
type IngestBackend string

const (
	// BackendPDF extracts text in-process.
	BackendPDF IngestBackend = "pdf"
	// BackendPdftotext pipes the PDF through a pdftotext container.
	BackendPdftotext IngestBackend = "pdftotext"
)

// IngestConfig holds settings for turning PDFs into pages.
type IngestConfig struct {
	// Backend selects the extraction tool: pdf or pdftotext.
	Backend IngestBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// PdftotextImage is the container image used by the pdftotext backend.
	PdftotextImage string `json:"pdftotext_image" yaml:"pdftotext_image" mapstructure:"pdftotext_image"`

	// MaxPages truncates documents to their first MaxPages pages. Zero keeps all pages.
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`

	// MaxPageChars truncates each page's text before sentence splitting.
	// Zero keeps the full text.
	MaxPageChars int `json:"max_page_chars" yaml:"max_page_chars" mapstructure:"max_page_chars"`

	// PagesDir is where the extract command writes page files.
	PagesDir string `json:"pages_dir" yaml:"pages_dir" mapstructure:"pages_dir"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Address is the listen address (default ":8000").
	Address string `json:"address" yaml:"address" mapstructure:"address"`

	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// MaxUploadBytes bounds the size of an uploaded document (default 32 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// Archive stores every served digest in the archive when true.
	Archive bool `json:"archive" yaml:"archive" mapstructure:"archive"`
}

// AbstractiveConfig holds settings for the optional hosted-model rewrite.
type AbstractiveConfig struct {
	// BaseURL is the OpenAI-compatible API root (default "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Model is the chat model identifier (default "gpt-4o-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the API. Usually supplied through
	// .secrets/openai-api-key or OPENAI_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// TokenLimit caps the completion length (default 800).
	TokenLimit int `json:"token_limit" yaml:"token_limit" mapstructure:"token_limit"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxRetries is the number of retries on rate limiting (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout is the HTTP request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ArchiveConfig holds settings for the digest archive.
type ArchiveConfig struct {
	// Dir contains the archive database and exports (default "archive").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of search hits (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all settings for the CLI and server.
type Config struct {
	Summarize   SummarizeConfig   `json:"summarize" yaml:"summarize" mapstructure:"summarize"`
	Ingest      IngestConfig      `json:"ingest" yaml:"ingest" mapstructure:"ingest"`
	Server      ServerConfig      `json:"server" yaml:"server" mapstructure:"server"`
	Abstractive AbstractiveConfig `json:"abstractive" yaml:"abstractive" mapstructure:"abstractive"`
	Archive     ArchiveConfig     `json:"archive" yaml:"archive" mapstructure:"archive"`
}
