package vertextext

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Envelope is the uniform result of both routes. Exactly one of the success
// or failure field sets is populated, selected by Status.
type Envelope struct {
	StatusCode int
	Status     string

	Response   string
	Model      string
	UserPrompt string

	Error string
	Kind  Kind
}

func Success(response, model, userPrompt string) Envelope {
	return Envelope{
		StatusCode: http.StatusOK,
		Status:     StatusSuccess,
		Response:   response,
		Model:      model,
		UserPrompt: userPrompt,
	}
}

func Failure(err *Error) Envelope {
	msg := err.Error()
	if msg == "" {
		msg = string(err.Kind)
	}
	return Envelope{
		StatusCode: http.StatusInternalServerError,
		Status:     StatusFailure,
		Error:      msg,
		Kind:       err.Kind,
	}
}

type successJSON struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Response   string `json:"response"`
	Model      string `json:"model"`
	UserPrompt string `json:"user_prompt"`
}

type failureJSON struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Error      string `json:"error"`
}

// MarshalJSON emits only the fields of the active variant. Kind stays internal.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Status == StatusSuccess {
		return json.Marshal(successJSON{
			StatusCode: e.StatusCode,
			Status:     e.Status,
			Response:   e.Response,
			Model:      e.Model,
			UserPrompt: e.UserPrompt,
		})
	}
	return json.Marshal(failureJSON{
		StatusCode: e.StatusCode,
		Status:     e.Status,
		Error:      e.Error,
	})
}
