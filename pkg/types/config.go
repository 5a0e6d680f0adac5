// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the number of entries requested from the API (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Keywords are ANDed together into the search query.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
}

// Provider names an inference API family.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ScoringConfig holds settings for the relevance scoring stage.
type ScoringConfig struct {
	// Provider selects the inference API: openai (chat completions) or anthropic.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier sent with every request (e.g. "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the provider's API base URL. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is the credential for the inference API. It is never compiled in;
	// it comes from config, PAPERSCOUT_SCORING_API_KEY, or .secrets/.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// Topic is the description each abstract is scored against.
	Topic string `json:"topic" yaml:"topic" mapstructure:"topic"`

	// SystemPrompt replaces the built-in scoring instruction when set.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty" mapstructure:"system_prompt"`

	// MaxTokens caps the reply length (default 16).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DownloadConfig holds settings for the filter-and-download stage.
type DownloadConfig struct {
	// RecordsPath is the JSON file of scored records. The score stage writes
	// it and the download stage reads it.
	RecordsPath string `json:"records_path" yaml:"records_path" mapstructure:"records_path"`

	// DestDir is the directory PDFs are written to as <index>.pdf.
	DestDir string `json:"dest_dir" yaml:"dest_dir" mapstructure:"dest_dir"`

	// Threshold is the minimum score (inclusive) for a paper to be downloaded.
	Threshold int `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// LedgerConfig holds settings for the SQLite run history.
type LedgerConfig struct {
	// Enabled turns run recording on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Scoring  ScoringConfig  `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Download DownloadConfig `json:"download" yaml:"download" mapstructure:"download"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
