package generation

import (
	"context"

	"github.com/Vovarama1992/vertex-text-bridge/internal/ai"
	"github.com/Vovarama1992/vertex-text-bridge/internal/prompts"
)

// Direct sends the pair straight to the model: one user message plus the
// system instruction, single round trip.
type Direct struct {
	model ai.Model
}

func NewDirect(model ai.Model) *Direct {
	return &Direct{model: model}
}

func (d *Direct) Generate(ctx context.Context, p prompts.Pair) (string, error) {
	reply, err := d.model.Generate(ctx, ai.Request{
		System:   p.System,
		Messages: []ai.Message{{Role: ai.RoleUser, Text: p.User}},
	})
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}
