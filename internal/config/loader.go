package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (optional), .env (optional) and the process
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vertex-text-bridge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("generation.provider", "vertex")
	v.SetDefault("generation.project", "llm-services-450013")
	v.SetDefault("generation.location", "us-central1")
	v.SetDefault("generation.model", "gemini-2.0-flash")
	v.SetDefault("generation.temperature", 0.2)
	v.SetDefault("generation.max_output_tokens", 1024)
	v.SetDefault("generation.openai.api_key", "")
	v.SetDefault("generation.openai.base_url", "")

	v.SetDefault("registry.backend", "mlflow")
	v.SetDefault("registry.user_prompt", "user_prompt")
	v.SetDefault("registry.system_prompt", "system_prompt")
	v.SetDefault("registry.alias", "latest")
	v.SetDefault("registry.timeout", 5*time.Second)
	v.SetDefault("registry.postgres.dsn", "")

	v.SetDefault("mlflow.tracking_uri", "")
	v.SetDefault("mlflow.timeout", 10*time.Second)

	v.SetDefault("tracking.backend", "mlflow")
	v.SetDefault("tracking.experiment", "LangChain_VertexAI_Experiment")
	v.SetDefault("tracking.track_direct", false)
	v.SetDefault("tracking.redis.address", "localhost:6379")
	v.SetDefault("tracking.redis.password", "")
	v.SetDefault("tracking.redis.db", 0)
	v.SetDefault("tracking.redis.stream", "generation_runs")

	v.SetDefault("observability.tracing", "none")
	v.SetDefault("observability.otlp_endpoint", "")
	v.SetDefault("observability.metrics_path", "/metrics")
}

// overrideFromEnv honours the conventional variable names used by the
// collaborators themselves.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("PORT"); val != "" {
		cfg.App.Port = val
	}
	if cfg.MLflow.TrackingURI == "" {
		cfg.MLflow.TrackingURI = os.Getenv("MLFLOW_TRACKING_URI")
	}
	if cfg.MLflow.TrackingURI == "" {
		cfg.MLflow.TrackingURI = "http://localhost:5000"
	}
	if cfg.Registry.Postgres.DSN == "" {
		cfg.Registry.Postgres.DSN = os.Getenv("DATABASE_URL")
	}
	if cfg.Generation.OpenAI.APIKey == "" {
		cfg.Generation.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func validate(cfg *Config) error {
	switch cfg.Generation.Provider {
	case "vertex":
	case "openai":
		if cfg.Generation.OpenAI.APIKey == "" {
			return errors.New("generation.openai.api_key is required for provider openai")
		}
	default:
		return fmt.Errorf("unknown generation.provider %q", cfg.Generation.Provider)
	}
	if cfg.Generation.Model == "" {
		return errors.New("generation.model is required")
	}
	if cfg.Generation.MaxOutputTokens <= 0 {
		return fmt.Errorf("generation.max_output_tokens must be positive, got %d", cfg.Generation.MaxOutputTokens)
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0, 2], got %v", cfg.Generation.Temperature)
	}

	switch cfg.Registry.Backend {
	case "mlflow", "none":
	case "postgres":
		if cfg.Registry.Postgres.DSN == "" {
			return errors.New("registry.postgres.dsn (or DATABASE_URL) is required for backend postgres")
		}
	default:
		return fmt.Errorf("unknown registry.backend %q", cfg.Registry.Backend)
	}
	if cfg.Registry.Timeout <= 0 {
		return fmt.Errorf("registry.timeout must be positive, got %s", cfg.Registry.Timeout)
	}
	if cfg.MLflow.Timeout <= 0 {
		return fmt.Errorf("mlflow.timeout must be positive, got %s", cfg.MLflow.Timeout)
	}

	switch cfg.Tracking.Backend {
	case "mlflow", "redis", "none":
	default:
		return fmt.Errorf("unknown tracking.backend %q", cfg.Tracking.Backend)
	}

	switch cfg.Observability.Tracing {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown observability.tracing %q", cfg.Observability.Tracing)
	}
	return nil
}
