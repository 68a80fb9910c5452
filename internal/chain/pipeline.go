package chain

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/outputparser"
	"github.com/tmc/langchaingo/prompts"
)

const (
	SystemVar   = "system"
	QuestionVar = "question"
)

// Pipeline is a chat prompt with one system message and one human turn,
// piped into a model and a plain text parser. Both messages are filled from
// variables, so braces inside the values are never interpreted.
type Pipeline struct {
	prompt prompts.ChatPromptTemplate
	llm    llms.Model
	parser outputparser.Simple
}

func NewPipeline(llm llms.Model) *Pipeline {
	return &Pipeline{
		prompt: prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
			prompts.NewSystemMessagePromptTemplate("{{.system}}", []string{SystemVar}),
			prompts.NewHumanMessagePromptTemplate("{{.question}}", []string{QuestionVar}),
		}),
		llm:    llm,
		parser: outputparser.NewSimple(),
	}
}

func (p *Pipeline) Invoke(ctx context.Context, values map[string]any) (string, error) {
	chat, err := p.prompt.FormatMessages(values)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}

	messages := make([]llms.MessageContent, 0, len(chat))
	for _, m := range chat {
		messages = append(messages, llms.TextParts(m.GetType(), m.GetContent()))
	}

	resp, err := p.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	out, err := p.parser.Parse(resp.Choices[0].Content)
	if err != nil {
		return "", err
	}
	text, _ := out.(string)
	return text, nil
}
