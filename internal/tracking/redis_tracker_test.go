package tracking

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTracker_RunEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	tr := NewRedisTracker(rdb, "generation_runs")

	run, err := tr.StartRun(ctx, "LangChain_VertexAI_Experiment")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID())

	require.NoError(t, run.Log(ctx, Entry{
		Params:  map[string]string{"model": "gemini-2.0-flash"},
		Metrics: map[string]float64{"latency_ms": 120},
		Tags:    map[string]string{"route": "/vertex-text-langchain"},
	}))
	require.NoError(t, run.End(ctx, StatusFinished))

	msgs, err := rdb.XRange(ctx, "generation_runs", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	events := []string{}
	for _, m := range msgs {
		events = append(events, m.Values["event"].(string))
		assert.Equal(t, run.ID(), m.Values["run_id"])
		assert.Equal(t, "LangChain_VertexAI_Experiment", m.Values["experiment"])
	}
	assert.Equal(t, []string{"start", "log", "end"}, events)

	assert.Equal(t, "gemini-2.0-flash", msgs[1].Values["param.model"])
	assert.Equal(t, "120", msgs[1].Values["metric.latency_ms"])
	assert.Equal(t, "/vertex-text-langchain", msgs[1].Values["tag.route"])
	assert.Equal(t, "FINISHED", msgs[2].Values["status"])
}

func TestRedisTracker_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	_, err := NewRedisTracker(rdb, "generation_runs").StartRun(context.Background(), "exp")
	assert.Error(t, err)
}
