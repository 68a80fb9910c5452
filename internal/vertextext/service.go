package vertextext

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Vovarama1992/vertex-text-bridge/internal/generation"
	"github.com/Vovarama1992/vertex-text-bridge/internal/logger"
	"github.com/Vovarama1992/vertex-text-bridge/internal/observability"
)

type service struct {
	route    string
	resolver Resolver
	backend  generation.Backend
	model    string
	log      *zap.Logger
}

// NewService wires one route's pipeline. model is the identifier reported in
// success envelopes, independent of what the provider answers with.
func NewService(route string, resolver Resolver, backend generation.Backend, model string, log *zap.Logger) Service {
	return &service{
		route:    route,
		resolver: resolver,
		backend:  backend,
		model:    model,
		log:      log.With(zap.String("component", "pipeline"), zap.String("route", route)),
	}
}

func (s *service) Handle(ctx context.Context, query string) (env Envelope) {
	ctx, span := otel.Tracer("vertextext").Start(ctx, "pipeline "+s.route)
	start := time.Now()
	stage := KindRegistry

	defer func() {
		if r := recover(); r != nil {
			kind := stage
			if kind == KindGeneration {
				kind = KindUnknown
			}
			env = Failure(&Error{Kind: kind, Err: fmt.Errorf("%v", r)})
			s.log.Error("pipeline panic", zap.String("kind", string(kind)), zap.Any("panic", r))
		}

		observability.RequestDuration.WithLabelValues(s.route).Observe(time.Since(start).Seconds())
		observability.RequestsTotal.WithLabelValues(s.route, env.Status).Inc()
		span.SetAttributes(attribute.String("envelope.status", env.Status))
		if env.Status == StatusFailure {
			observability.FailuresTotal.WithLabelValues(s.route, string(env.Kind)).Inc()
			span.SetStatus(codes.Error, env.Error)
		}
		span.End()
	}()

	pair := s.resolver.Resolve(ctx, query)

	stage = KindGeneration
	text, err := s.backend.Generate(ctx, pair)
	if err != nil {
		s.log.Error("generation failed", zap.String("error", logger.ShortErr(err, 100)))
		return Failure(&Error{Kind: KindGeneration, Err: err})
	}

	return Success(text, s.model, pair.User)
}
