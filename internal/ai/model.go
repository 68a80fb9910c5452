package ai

import (
	"context"
	"fmt"
)

type OpenAIOptions struct {
	APIKey  string
	BaseURL string
}

// New builds the Model for settings.Provider.
func New(ctx context.Context, settings Settings, oa OpenAIOptions) (Model, error) {
	switch settings.Provider {
	case "", "vertex":
		return NewVertexModel(ctx, settings)
	case "openai":
		return NewOpenAIModel(oa.APIKey, oa.BaseURL, settings), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", settings.Provider)
	}
}
