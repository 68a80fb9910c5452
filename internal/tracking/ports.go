// Package tracking records generation calls as experiment runs. Tracking is
// best-effort: callers must never fail a generation because of it.
package tracking

import "context"

type Status string

const (
	StatusFinished Status = "FINISHED"
	StatusFailed   Status = "FAILED"
)

// Entry is a batch of values logged to a run.
type Entry struct {
	Params  map[string]string
	Metrics map[string]float64
	Tags    map[string]string
}

// Tracker opens runs inside a named experiment.
type Tracker interface {
	StartRun(ctx context.Context, experiment string) (Run, error)
}

// Run is an open run scope.
type Run interface {
	ID() string
	Log(ctx context.Context, e Entry) error
	End(ctx context.Context, status Status) error
}
