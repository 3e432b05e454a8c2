// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/foodnservice/article-engine/pkg/types"
)

// OpenAICompleter implements Completer using the official openai-go SDK
// (chat completions).
type OpenAICompleter struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAICompleter builds a completer from generation config.
func NewOpenAICompleter(cfg types.GenerationConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide generation.api_key or .secrets/openai-api-key")
	}
	if cfg.Model == "" {
		return nil, errors.New("generation model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAICompleter{model: cfg.Model, opts: opts}, nil
}

// Complete sends a single user message and returns the raw assistant text.
func (c *OpenAICompleter) Complete(ctx context.Context, promptText string) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(promptText),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
