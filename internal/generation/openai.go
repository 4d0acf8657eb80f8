package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultModel = openai.ChatModelGPT4oMini

var ErrNoCompletion = errors.New("completion returned no text")

// ChatCompleter is the part of the openai chat completions service used here.
type ChatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type openAIGenerator struct {
	completions ChatCompleter
	model       openai.ChatModel
	maxTokens   int64
}

// NewOpenAIGenerator creates a Generator that calls the chat completions api.
// An empty model falls back to DefaultModel.
func NewOpenAIGenerator(apiKey, model string) Generator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return NewGeneratorWithCompleter(&client.Chat.Completions, model)
}

func NewGeneratorWithCompleter(completions ChatCompleter, model string) Generator {
	m := openai.ChatModel(model)
	if m == "" {
		m = DefaultModel
	}
	return &openAIGenerator{
		completions: completions,
		model:       m,
		maxTokens:   120,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(g.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoCompletion
	}

	return text, nil
}
