package tracking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/Vovarama1992/vertex-text-bridge/internal/mlflow"
)

type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type metric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

// MLflowTracker records runs on an MLflow tracking server. The experiment is
// created on first use.
type MLflowTracker struct {
	client *mlflow.Client
	now    func() time.Time
}

func NewMLflowTracker(client *mlflow.Client) *MLflowTracker {
	return &MLflowTracker{client: client, now: time.Now}
}

func (t *MLflowTracker) StartRun(ctx context.Context, experiment string) (Run, error) {
	expID, err := t.experimentID(ctx, experiment)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}
	err = t.client.Post(ctx, "/runs/create", map[string]any{
		"experiment_id": expID,
		"start_time":    t.now().UnixMilli(),
		"tags":          []keyValue{{Key: "mlflow.source.name", Value: "vertex-text-bridge"}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	if resp.Run.Info.RunID == "" {
		return nil, errors.New("create run: empty run_id")
	}

	return &mlflowRun{tracker: t, id: resp.Run.Info.RunID}, nil
}

func (t *MLflowTracker) experimentID(ctx context.Context, name string) (string, error) {
	var got struct {
		Experiment struct {
			ExperimentID string `json:"experiment_id"`
		} `json:"experiment"`
	}
	err := t.client.Get(ctx, "/experiments/get-by-name", url.Values{"experiment_name": {name}}, &got)
	if err == nil {
		return got.Experiment.ExperimentID, nil
	}
	if !errors.Is(err, mlflow.ErrResourceNotFound) {
		return "", fmt.Errorf("get experiment %q: %w", name, err)
	}

	var created struct {
		ExperimentID string `json:"experiment_id"`
	}
	if err := t.client.Post(ctx, "/experiments/create", map[string]string{"name": name}, &created); err != nil {
		return "", fmt.Errorf("create experiment %q: %w", name, err)
	}
	return created.ExperimentID, nil
}

type mlflowRun struct {
	tracker *MLflowTracker
	id      string
}

func (r *mlflowRun) ID() string { return r.id }

func (r *mlflowRun) Log(ctx context.Context, e Entry) error {
	ts := r.tracker.now().UnixMilli()
	metrics := make([]metric, 0, len(e.Metrics))
	for _, k := range sortedKeys(e.Metrics) {
		metrics = append(metrics, metric{Key: k, Value: e.Metrics[k], Timestamp: ts})
	}

	err := r.tracker.client.Post(ctx, "/runs/log-batch", map[string]any{
		"run_id":  r.id,
		"params":  toKeyValues(e.Params),
		"metrics": metrics,
		"tags":    toKeyValues(e.Tags),
	}, nil)
	if err != nil {
		return fmt.Errorf("log run %s: %w", r.id, err)
	}
	return nil
}

func (r *mlflowRun) End(ctx context.Context, status Status) error {
	err := r.tracker.client.Post(ctx, "/runs/update", map[string]any{
		"run_id":   r.id,
		"status":   string(status),
		"end_time": r.tracker.now().UnixMilli(),
	}, nil)
	if err != nil {
		return fmt.Errorf("end run %s: %w", r.id, err)
	}
	return nil
}

func toKeyValues(m map[string]string) []keyValue {
	out := make([]keyValue, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, keyValue{Key: k, Value: m[k]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
