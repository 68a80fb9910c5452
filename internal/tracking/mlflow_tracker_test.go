package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/vertex-text-bridge/internal/mlflow"
)

type mlflowStub struct {
	mu          sync.Mutex
	experiments map[string]string
	bodies      map[string][]map[string]any
	failPath    string
}

func newMLflowStub(t *testing.T) (*mlflowStub, *MLflowTracker) {
	stub := &mlflowStub{experiments: map[string]string{}, bodies: map[string][]map[string]any{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	tr := NewMLflowTracker(mlflow.NewClient(srv.URL, time.Second))
	tr.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return stub, tr
}

func (s *mlflowStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := r.URL.Path[len("/api/2.0/mlflow"):]
	if path == s.failPath {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error_code":"TEMPORARILY_UNAVAILABLE","message":"down"}`))
		return
	}

	var body map[string]any
	if r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.bodies[path] = append(s.bodies[path], body)
	}

	switch path {
	case "/experiments/get-by-name":
		id, ok := s.experiments[r.URL.Query().Get("experiment_name")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"no experiment"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"experiment": map[string]string{"experiment_id": id}})
	case "/experiments/create":
		s.experiments[body["name"].(string)] = "42"
		w.Write([]byte(`{"experiment_id":"42"}`))
	case "/runs/create":
		w.Write([]byte(`{"run":{"info":{"run_id":"run-1"}}}`))
	default:
		w.Write([]byte(`{}`))
	}
}

func TestMLflowTracker_RunLifecycle(t *testing.T) {
	stub, tr := newMLflowStub(t)
	ctx := context.Background()

	run, err := tr.StartRun(ctx, "LangChain_VertexAI_Experiment")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID())

	require.NoError(t, run.Log(ctx, Entry{
		Params:  map[string]string{"model": "gemini-2.0-flash", "temperature": "0.2"},
		Metrics: map[string]float64{"latency_ms": 812},
		Tags:    map[string]string{"user_prompt": "What is 2+2?"},
	}))
	require.NoError(t, run.End(ctx, StatusFinished))

	stub.mu.Lock()
	defer stub.mu.Unlock()

	require.Len(t, stub.bodies["/experiments/create"], 1)
	assert.Equal(t, "LangChain_VertexAI_Experiment", stub.bodies["/experiments/create"][0]["name"])

	require.Len(t, stub.bodies["/runs/create"], 1)
	assert.Equal(t, "42", stub.bodies["/runs/create"][0]["experiment_id"])
	assert.EqualValues(t, 1700000000000, stub.bodies["/runs/create"][0]["start_time"])

	batch := stub.bodies["/runs/log-batch"][0]
	assert.Equal(t, "run-1", batch["run_id"])
	assert.Len(t, batch["params"], 2)
	assert.Len(t, batch["metrics"], 1)
	assert.Len(t, batch["tags"], 1)

	update := stub.bodies["/runs/update"][0]
	assert.Equal(t, "FINISHED", update["status"])
}

func TestMLflowTracker_ExistingExperiment(t *testing.T) {
	stub, tr := newMLflowStub(t)
	stub.experiments["exp"] = "7"

	_, err := tr.StartRun(context.Background(), "exp")
	require.NoError(t, err)

	assert.Empty(t, stub.bodies["/experiments/create"])
	assert.Equal(t, "7", stub.bodies["/runs/create"][0]["experiment_id"])
}

func TestMLflowTracker_Failures(t *testing.T) {
	for _, path := range []string{"/experiments/get-by-name", "/experiments/create", "/runs/create"} {
		t.Run(path, func(t *testing.T) {
			stub, tr := newMLflowStub(t)
			stub.failPath = path
			_, err := tr.StartRun(context.Background(), "exp")
			assert.Error(t, err)
		})
	}

	stub, tr := newMLflowStub(t)
	run, err := tr.StartRun(context.Background(), "exp")
	require.NoError(t, err)

	stub.mu.Lock()
	stub.failPath = "/runs/log-batch"
	stub.mu.Unlock()
	assert.Error(t, run.Log(context.Background(), Entry{Params: map[string]string{"a": "b"}}))

	stub.mu.Lock()
	stub.failPath = "/runs/update"
	stub.mu.Unlock()
	assert.Error(t, run.End(context.Background(), StatusFailed))
}
