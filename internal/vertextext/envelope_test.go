package vertextext

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_SuccessJSON(t *testing.T) {
	b, err := json.Marshal(Success("", "gemini-2.0-flash", "What is 2+2?"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status_code": 200,
		"status": "success",
		"response": "",
		"model": "gemini-2.0-flash",
		"user_prompt": "What is 2+2?"
	}`, string(b))
}

func TestEnvelope_FailureJSON(t *testing.T) {
	env := Failure(&Error{Kind: KindGeneration, Err: errors.New("quota exceeded")})
	assert.Equal(t, KindGeneration, env.Kind)

	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status_code": 500, "status": "failure", "error": "quota exceeded"}`, string(b))
}

func TestEnvelope_FailureNeverEmpty(t *testing.T) {
	env := Failure(&Error{Kind: KindUnknown, Err: errors.New("")})
	assert.Equal(t, "unknown", env.Error)
}

func TestKindOf(t *testing.T) {
	wrapped := &Error{Kind: KindRegistry, Err: errors.New("x")}
	assert.Equal(t, KindRegistry, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "x", errors.Unwrap(wrapped).Error())
}
