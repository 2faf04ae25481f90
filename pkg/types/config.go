// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the session store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ExportConfig holds settings for document export.
type ExportConfig struct {
	// ExportDir is the directory exported files are written to.
	ExportDir string `json:"export_dir" yaml:"export_dir"`

	// PandocPath overrides the pandoc binary used for PDF export. An
	// empty value resolves pandoc from PATH.
	PandocPath string `json:"pandoc_path,omitempty" yaml:"pandoc_path,omitempty"`
}

// AIConfig holds shared settings for calls to the Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited API
	// calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// EnrichConfig holds settings for the optional AI enrichment step.
type EnrichConfig struct {
	AIConfig `yaml:",inline"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
	Enrich EnrichConfig `json:"enrich" yaml:"enrich"`
}
