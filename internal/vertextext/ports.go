package vertextext

import (
	"context"

	"github.com/Vovarama1992/vertex-text-bridge/internal/prompts"
)

const (
	RouteVertexText          = "/vertex-text"
	RouteVertexTextLangchain = "/vertex-text-langchain"
)

// Resolver produces the prompt pair for a query. It does not fail.
type Resolver interface {
	Resolve(ctx context.Context, query string) prompts.Pair
}

// Service runs one request through resolve → generate → envelope.
type Service interface {
	Handle(ctx context.Context, query string) Envelope
}
