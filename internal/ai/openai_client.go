package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIModel serves the same Settings through an OpenAI-compatible
// chat completions endpoint.
type OpenAIModel struct {
	client   *openai.Client
	settings Settings
}

func NewOpenAIModel(apiKey, baseURL string, settings Settings) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIModel{
		client:   openai.NewClientWithConfig(cfg),
		settings: settings,
	}
}

func (m *OpenAIModel) Generate(ctx context.Context, req Request) (Reply, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Text,
		})
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.settings.Model,
		Messages:    msgs,
		Temperature: m.settings.Temperature,
		MaxTokens:   int(m.settings.MaxOutputTokens),
	})
	if err != nil {
		return Reply{}, err
	}
	if len(resp.Choices) == 0 {
		return Reply{}, ErrEmptyResponse
	}

	return Reply{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}
