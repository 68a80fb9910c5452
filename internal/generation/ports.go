package generation

import (
	"context"

	"github.com/Vovarama1992/vertex-text-bridge/internal/prompts"
)

// Backend turns a resolved prompt pair into generated text.
type Backend interface {
	Generate(ctx context.Context, p prompts.Pair) (string, error)
}
