package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged part of a conversation.
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}

// Request carries the system instruction separately from the dialogue.
type Request struct {
	System   string
	Messages []Message
}

// Reply is the provider's answer. Model is what the provider reports, which
// may differ from Settings.Model.
type Reply struct {
	Text  string
	Model string
}

// Model is a chat model bound at construction time to one provider account,
// region and decoding configuration.
type Model interface {
	Generate(ctx context.Context, req Request) (Reply, error)
}

// Settings is the fixed provider and decoding configuration shared by every
// generation backend.
type Settings struct {
	Provider        string
	Project         string
	Location        string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}
