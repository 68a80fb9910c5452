package vertextext

import "errors"

// Kind classifies a pipeline failure.
type Kind string

const (
	KindRegistry   Kind = "registry_error"
	KindGeneration Kind = "generation_error"
	KindUnknown    Kind = "unknown"
)

// Error is a classified pipeline failure. Its text is the cause's text,
// unchanged.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
