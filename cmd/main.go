package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vovarama1992/vertex-text-bridge/internal/ai"
	"github.com/Vovarama1992/vertex-text-bridge/internal/config"
	"github.com/Vovarama1992/vertex-text-bridge/internal/generation"
	"github.com/Vovarama1992/vertex-text-bridge/internal/logger"
	"github.com/Vovarama1992/vertex-text-bridge/internal/mlflow"
	"github.com/Vovarama1992/vertex-text-bridge/internal/observability"
	"github.com/Vovarama1992/vertex-text-bridge/internal/prompts"
	"github.com/Vovarama1992/vertex-text-bridge/internal/tracking"
	"github.com/Vovarama1992/vertex-text-bridge/internal/vertextext"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	shutdownTracing, err := observability.InitTracing(ctx, zl, observability.TracingConfig{
		ServiceName:  cfg.App.Name,
		Environment:  cfg.App.Environment,
		Exporter:     cfg.Observability.Tracing,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		zl.Fatal("tracing init failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	mlflowClient := mlflow.NewClient(cfg.MLflow.TrackingURI, cfg.MLflow.Timeout)

	// --- Prompt registry ---
	var registry prompts.Registry
	switch cfg.Registry.Backend {
	case "mlflow":
		registry = prompts.NewMLflowRegistry(mlflowClient)
	case "postgres":
		db, err := sql.Open("postgres", cfg.Registry.Postgres.DSN)
		if err != nil {
			zl.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()
		registry = prompts.NewPostgresRegistry(db)
	}
	if p, ok := registry.(pinger); ok {
		probeRegistry(ctx, zl, p, cfg.Registry.Timeout)
	}
	resolver := prompts.NewResolver(registry, prompts.ResolverConfig{
		UserPrompt:   cfg.Registry.UserPrompt,
		SystemPrompt: cfg.Registry.SystemPrompt,
		Alias:        cfg.Registry.Alias,
		Timeout:      cfg.Registry.Timeout,
	}, zl)

	// --- Model ---
	settings := ai.Settings{
		Provider:        cfg.Generation.Provider,
		Project:         cfg.Generation.Project,
		Location:        cfg.Generation.Location,
		Model:           cfg.Generation.Model,
		Temperature:     float32(cfg.Generation.Temperature),
		MaxOutputTokens: int32(cfg.Generation.MaxOutputTokens),
	}
	model, err := ai.New(ctx, settings, ai.OpenAIOptions{
		APIKey:  cfg.Generation.OpenAI.APIKey,
		BaseURL: cfg.Generation.OpenAI.BaseURL,
	})
	if err != nil {
		zl.Fatal("model init failed", zap.Error(err))
	}

	// --- Tracking ---
	var tracker tracking.Tracker
	switch cfg.Tracking.Backend {
	case "mlflow":
		tracker = tracking.NewMLflowTracker(mlflowClient)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Tracking.Redis.Address,
			Password:     cfg.Tracking.Redis.Password,
			DB:           cfg.Tracking.Redis.DB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		})
		defer rdb.Close()
		tracker = tracking.NewRedisTracker(rdb, cfg.Tracking.Redis.Stream)
	}

	var direct generation.Backend = generation.NewDirect(model)
	var chained generation.Backend = generation.NewChain(model)
	if tracker != nil {
		chained = generation.NewTracked(chained, tracker, cfg.Tracking.Experiment, settings, zl)
		if cfg.Tracking.TrackDirect {
			direct = generation.NewTracked(direct, tracker, cfg.Tracking.Experiment, settings, zl)
		}
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(vertextext.Recoverer(zl))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	vertextext.RegisterRoutes(r,
		vertextext.NewHandler(vertextext.NewService(vertextext.RouteVertexText, resolver, direct, cfg.Generation.Model, zl), zl),
		vertextext.NewHandler(vertextext.NewService(vertextext.RouteVertexTextLangchain, resolver, chained, cfg.Generation.Model, zl), zl),
	)

	// --- health / metrics ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle(cfg.Observability.MetricsPath, promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	zl.Info("listening",
		zap.String("addr", srv.Addr),
		zap.String("provider", settings.Provider),
		zap.String("model", settings.Model),
		zap.String("registry", cfg.Registry.Backend),
		zap.String("tracking", cfg.Tracking.Backend),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server error", zap.Error(err))
	}
}

// probeRegistry makes a single reachability check so a misconfigured
// registry shows up in startup logs. Requests still resolve prompts
// independently and fall back on their own.
func probeRegistry(ctx context.Context, zl *zap.Logger, p pinger, timeout time.Duration) {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Ping(pctx); err != nil {
		zl.Warn("prompt registry unreachable at startup, default prompts will be used until it recovers",
			zap.String("error", logger.ShortErr(err, 100)),
		)
		return
	}
	zl.Info("prompt registry reachable")
}
