// Package chain runs the prompt | model | parser pipeline on langchaingo,
// with the service's own ai.Model behind the llms.Model interface.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/Vovarama1992/vertex-text-bridge/internal/ai"
)

var ErrNoChoices = errors.New("model returned no choices")

// LLM adapts an ai.Model to llms.Model. Decoding parameters are fixed when the
// ai.Model is built, so per-call options are ignored.
type LLM struct {
	model ai.Model
}

var _ llms.Model = (*LLM)(nil)

func NewLLM(model ai.Model) *LLM {
	return &LLM{model: model}
}

func (l *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	msgs := make([]ai.Message, 0, len(messages))
	for _, mc := range messages {
		text, err := textOf(mc)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, ai.Message{Role: roleOf(mc.Role), Text: text})
	}

	reply, err := l.model.Generate(ctx, ai.Request{Messages: msgs})
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        reply.Text,
			GenerationInfo: map[string]any{"model": reply.Model},
		}},
	}, nil
}

func (l *LLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, l, prompt, options...)
}

func roleOf(t llms.ChatMessageType) string {
	switch t {
	case llms.ChatMessageTypeSystem:
		return ai.RoleSystem
	case llms.ChatMessageTypeAI:
		return ai.RoleAssistant
	default:
		return ai.RoleUser
	}
}

func textOf(mc llms.MessageContent) (string, error) {
	var sb strings.Builder
	for _, part := range mc.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			sb.WriteString(p.Text)
		case *llms.TextContent:
			sb.WriteString(p.Text)
		default:
			return "", fmt.Errorf("unsupported %s message part %T", mc.Role, part)
		}
	}
	return sb.String(), nil
}
