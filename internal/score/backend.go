// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/paperscout/pkg/types"
)

// DefaultMaxTokens bounds the reply; a bare integer needs only a few tokens.
const DefaultMaxTokens = 16

// NewBackend returns the Backend selected by cfg.Provider.
func NewBackend(cfg types.ScoringConfig, client *http.Client) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("score: API key is required")
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewOpenAIBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, maxTokens, client), nil
	case types.ProviderAnthropic:
		return NewAnthropicBackend(cfg.APIKey, cfg.Model, cfg.BaseURL, maxTokens, client), nil
	default:
		return nil, eris.Errorf("score: unknown provider %q", cfg.Provider)
	}
}
