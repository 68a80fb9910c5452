package generation

import (
	"context"

	"github.com/Vovarama1992/vertex-text-bridge/internal/ai"
	"github.com/Vovarama1992/vertex-text-bridge/internal/chain"
	"github.com/Vovarama1992/vertex-text-bridge/internal/prompts"
)

// Chain runs prompt | model | parser. The system prompt fills the system
// message and the user prompt fills the single human turn.
type Chain struct {
	pipeline *chain.Pipeline
}

func NewChain(model ai.Model) *Chain {
	return &Chain{pipeline: chain.NewPipeline(chain.NewLLM(model))}
}

func (c *Chain) Generate(ctx context.Context, p prompts.Pair) (string, error) {
	return c.pipeline.Invoke(ctx, map[string]any{
		chain.SystemVar:   p.System,
		chain.QuestionVar: p.User,
	})
}
