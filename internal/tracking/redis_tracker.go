package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTracker appends run events to a Redis stream for out-of-band
// consumers.
type RedisTracker struct {
	rdb    *redis.Client
	stream string
	now    func() time.Time
}

func NewRedisTracker(rdb *redis.Client, stream string) *RedisTracker {
	return &RedisTracker{rdb: rdb, stream: stream, now: time.Now}
}

func (t *RedisTracker) StartRun(ctx context.Context, experiment string) (Run, error) {
	run := &redisRun{tracker: t, id: uuid.NewString(), experiment: experiment, started: t.now()}
	if err := run.emit(ctx, "start", map[string]any{"started_at": run.started.UnixMilli()}); err != nil {
		return nil, err
	}
	return run, nil
}

type redisRun struct {
	tracker    *RedisTracker
	id         string
	experiment string
	started    time.Time
}

func (r *redisRun) ID() string { return r.id }

func (r *redisRun) Log(ctx context.Context, e Entry) error {
	values := map[string]any{}
	for k, v := range e.Params {
		values["param."+k] = v
	}
	for k, v := range e.Metrics {
		values["metric."+k] = v
	}
	for k, v := range e.Tags {
		values["tag."+k] = v
	}
	return r.emit(ctx, "log", values)
}

func (r *redisRun) End(ctx context.Context, status Status) error {
	return r.emit(ctx, "end", map[string]any{
		"status":      string(status),
		"duration_ms": r.tracker.now().Sub(r.started).Milliseconds(),
	})
}

func (r *redisRun) emit(ctx context.Context, event string, values map[string]any) error {
	values["event"] = event
	values["run_id"] = r.id
	values["experiment"] = r.experiment

	err := r.tracker.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.tracker.stream,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("redis run %s %s: %w", r.id, event, err)
	}
	return nil
}
