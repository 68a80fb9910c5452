package prompts

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Vovarama1992/vertex-text-bridge/internal/logger"
	"github.com/Vovarama1992/vertex-text-bridge/internal/observability"
)

type ResolverConfig struct {
	UserPrompt   string
	SystemPrompt string
	Alias        string
	Timeout      time.Duration
}

// Resolver turns a raw query into a Pair using the registry, or the built-in
// defaults when any registry step fails.
type Resolver struct {
	registry Registry
	cfg      ResolverConfig
	log      *zap.Logger
}

// NewResolver accepts a nil registry; every resolution then falls back.
func NewResolver(registry Registry, cfg ResolverConfig, log *zap.Logger) *Resolver {
	if cfg.UserPrompt == "" {
		cfg.UserPrompt = "user_prompt"
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = "system_prompt"
	}
	if cfg.Alias == "" {
		cfg.Alias = "latest"
	}
	return &Resolver{
		registry: registry,
		cfg:      cfg,
		log:      log.With(zap.String("component", "prompts")),
	}
}

// Resolve never fails. A failure at any step discards partial results and
// returns the query verbatim with DefaultSystemPrompt.
func (r *Resolver) Resolve(ctx context.Context, query string) Pair {
	ctx, span := otel.Tracer("prompts").Start(ctx, "prompts.Resolve")
	defer span.End()

	pair, err := r.fromRegistry(ctx, query)
	if err != nil {
		r.log.Warn("prompt registry unavailable, using default prompts",
			zap.String("error", logger.ShortErr(err, 100)),
		)
		observability.PromptFallbacksTotal.Inc()
		span.SetAttributes(attribute.Bool("prompts.fallback", true))
		return Pair{System: DefaultSystemPrompt, User: query}
	}

	span.SetAttributes(attribute.Bool("prompts.fallback", false))
	return pair
}

func (r *Resolver) fromRegistry(ctx context.Context, query string) (Pair, error) {
	if r.registry == nil {
		return Pair{}, ErrNoRegistry
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	userTmpl, err := r.registry.Load(ctx, r.cfg.UserPrompt, r.cfg.Alias)
	if err != nil {
		return Pair{}, fmt.Errorf("load %s@%s: %w", r.cfg.UserPrompt, r.cfg.Alias, err)
	}
	systemTmpl, err := r.registry.Load(ctx, r.cfg.SystemPrompt, r.cfg.Alias)
	if err != nil {
		return Pair{}, fmt.Errorf("load %s@%s: %w", r.cfg.SystemPrompt, r.cfg.Alias, err)
	}

	user, err := userTmpl.Format(map[string]string{QueryVariable: query})
	if err != nil {
		return Pair{}, err
	}
	system := systemTmpl.String()
	if user == "" || system == "" {
		return Pair{}, ErrEmptyTemplate
	}

	return Pair{System: system, User: user}, nil
}
