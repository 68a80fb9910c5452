package generation

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/vertex-text-bridge/internal/ai"
	"github.com/Vovarama1992/vertex-text-bridge/internal/logger"
	"github.com/Vovarama1992/vertex-text-bridge/internal/observability"
	"github.com/Vovarama1992/vertex-text-bridge/internal/prompts"
	"github.com/Vovarama1992/vertex-text-bridge/internal/tracking"
)

const tagValueLimit = 5000

// Tracked wraps a Backend in a tracked run. If anything inside the run scope
// fails, including the wrapped backend itself, the run is closed and the
// backend is invoked once more without tracking. There is never more than one
// extra call.
type Tracked struct {
	next       Backend
	tracker    tracking.Tracker
	experiment string
	params     map[string]string
	log        *zap.Logger
}

func NewTracked(next Backend, tracker tracking.Tracker, experiment string, settings ai.Settings, log *zap.Logger) *Tracked {
	return &Tracked{
		next:       next,
		tracker:    tracker,
		experiment: experiment,
		params: map[string]string{
			"provider":          settings.Provider,
			"model":             settings.Model,
			"temperature":       strconv.FormatFloat(float64(settings.Temperature), 'f', -1, 32),
			"max_output_tokens": strconv.Itoa(int(settings.MaxOutputTokens)),
		},
		log: log.With(zap.String("component", "tracking"), zap.String("experiment", experiment)),
	}
}

func (t *Tracked) Generate(ctx context.Context, p prompts.Pair) (string, error) {
	run, err := t.tracker.StartRun(ctx, t.experiment)
	if err != nil {
		return t.untracked(ctx, p, "start", err)
	}

	err = run.Log(ctx, tracking.Entry{
		Params: t.params,
		Tags: map[string]string{
			"system_prompt": logger.Short(p.System, tagValueLimit),
			"user_prompt":   logger.Short(p.User, tagValueLimit),
		},
	})
	if err != nil {
		if endErr := run.End(ctx, tracking.StatusFailed); endErr != nil {
			t.log.Debug("closing abandoned run failed", zap.Error(endErr))
		}
		return t.untracked(ctx, p, "log", err)
	}

	start := time.Now()
	text, genErr := t.next.Generate(ctx, p)

	entry := tracking.Entry{
		Metrics: map[string]float64{"latency_ms": float64(time.Since(start).Milliseconds())},
	}
	status := tracking.StatusFinished
	if genErr != nil {
		status = tracking.StatusFailed
		entry.Tags = map[string]string{"error": logger.ShortErr(genErr, tagValueLimit)}
	} else {
		entry.Tags = map[string]string{"response": logger.Short(text, tagValueLimit)}
	}

	// The generation already happened; from here tracking errors are only logged.
	if err := run.Log(ctx, entry); err != nil {
		t.log.Warn("run logging failed after generation",
			zap.String("run_id", run.ID()),
			zap.String("error", logger.ShortErr(err, 100)),
		)
	}
	if err := run.End(ctx, status); err != nil {
		t.log.Warn("run end failed after generation",
			zap.String("run_id", run.ID()),
			zap.String("error", logger.ShortErr(err, 100)),
		)
	}

	if genErr != nil {
		return t.untracked(ctx, p, "run", genErr)
	}
	return text, nil
}

func (t *Tracked) untracked(ctx context.Context, p prompts.Pair, stage string, err error) (string, error) {
	t.log.Warn("tracked run error, proceeding without logging",
		zap.String("stage", stage),
		zap.String("error", logger.ShortErr(err, 100)),
	)
	observability.TrackingFallbacksTotal.WithLabelValues(stage).Inc()
	return t.next.Generate(ctx, p)
}
