package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Format(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{
			name: "single variable",
			text: "Answer briefly: {{user_query}}",
			vars: map[string]string{"user_query": "What is 2+2?"},
			want: "Answer briefly: What is 2+2?",
		},
		{
			name: "whitespace inside braces",
			text: "Q: {{ user_query }}\nA:",
			vars: map[string]string{"user_query": "hello"},
			want: "Q: hello\nA:",
		},
		{
			name: "repeated variable",
			text: "{{user_query}} / {{user_query}}",
			vars: map[string]string{"user_query": "x"},
			want: "x / x",
		},
		{
			name: "no variables",
			text: "static text",
			vars: map[string]string{"user_query": "ignored"},
			want: "static text",
		},
		{
			name: "substituted value is not re-expanded",
			text: "{{user_query}}",
			vars: map[string]string{"user_query": "{{user_query}}"},
			want: "{{user_query}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := &Template{Name: "user_prompt", Text: tt.text}
			got, err := tmpl.Format(tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplate_FormatMissingVariable(t *testing.T) {
	tmpl := &Template{Name: "user_prompt", Version: "3", Text: "{{user_query}} in {{language}} for {{audience}}"}

	_, err := tmpl.Format(map[string]string{"user_query": "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingVariable))
	assert.Contains(t, err.Error(), "audience, language")
	assert.Contains(t, err.Error(), "user_prompt/3")
}

func TestTemplate_VariablesAndString(t *testing.T) {
	tmpl := &Template{Text: "{{ b }} {{a}} {{b}}"}
	assert.Equal(t, []string{"b", "a"}, tmpl.Variables())
	assert.Equal(t, "{{ b }} {{a}} {{b}}", tmpl.String())
}
