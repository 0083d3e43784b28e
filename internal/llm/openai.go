package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIBackend calls any OpenAI-compatible chat completion endpoint.
type OpenAIBackend struct {
	chatModel model.ChatModel
	cfg       Config
}

func NewOpenAIBackend(ctx context.Context, cfg Config) (*OpenAIBackend, error) {
	m := cfg.Model
	if m == "" {
		m = defaultOpenAIModel
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   m,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat model: %w", err)
	}
	return &OpenAIBackend{chatModel: chatModel, cfg: cfg}, nil
}

func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	var messages []*schema.Message
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	var opts []model.Option
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	resp, err := b.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
