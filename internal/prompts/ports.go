package prompts

import (
	"context"
	"errors"
)

// DefaultSystemPrompt replaces the registry system prompt whenever resolution fails.
const DefaultSystemPrompt = "You are a helpful AI assistant."

// QueryVariable is the template variable the user query is bound to.
const QueryVariable = "user_query"

var (
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrMissingVariable = errors.New("missing template variable")
	ErrEmptyTemplate   = errors.New("empty prompt template")
	ErrNoRegistry      = errors.New("prompt registry disabled")
)

// Registry is a read-only, versioned store of named prompt templates.
type Registry interface {
	Load(ctx context.Context, name, alias string) (*Template, error)
}

// Pair is what generation backends consume. Both fields are always set.
type Pair struct {
	System string
	User   string
}
