package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("model returned no candidates")

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// VertexModel generates content with Gemini on Vertex AI.
type VertexModel struct {
	models   contentGenerator
	settings Settings
}

// NewVertexModel binds a genai client to the configured project and region.
// Credentials come from Application Default Credentials.
func NewVertexModel(ctx context.Context, settings Settings) (*VertexModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  settings.Project,
		Location: settings.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &VertexModel{models: client.Models, settings: settings}, nil
}

func (m *VertexModel) Generate(ctx context.Context, req Request) (Reply, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	system := req.System
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			if system != "" {
				system += "\n"
			}
			system += msg.Text
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.settings.Temperature),
		MaxOutputTokens: m.settings.MaxOutputTokens,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := m.models.GenerateContent(ctx, m.settings.Model, contents, config)
	if err != nil {
		return Reply{}, err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return Reply{}, ErrEmptyResponse
	}

	return Reply{Text: resp.Text(), Model: resp.ModelVersion}, nil
}
