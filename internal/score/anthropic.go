// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"net/http"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// AnthropicBackend calls the Anthropic Messages API through the official SDK.
type AnthropicBackend struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// NewAnthropicBackend builds a backend for model. baseURL and httpClient are
// optional. The SDK's own retries are disabled.
func NewAnthropicBackend(apiKey, model, baseURL string, maxTokens int, httpClient *http.Client) *AnthropicBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &AnthropicBackend{
		client:    sdk.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// Complete sends the prompt and returns the first text block of the reply.
func (b *AnthropicBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(b.model),
		MaxTokens: b.maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(p.User))},
	}
	if p.System != "" {
		params.System = []sdk.TextBlockParam{{Text: p.System}}
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", eris.New("anthropic: no text content in reply")
}
