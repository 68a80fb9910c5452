package config

import "time"

// Config is the process configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Generation    GenerationConfig    `mapstructure:"generation"`
	Registry      RegistryConfig      `mapstructure:"registry"`
	MLflow        MLflowConfig        `mapstructure:"mlflow"`
	Tracking      TrackingConfig      `mapstructure:"tracking"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Port        string `mapstructure:"port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GenerationConfig is shared by both generation backends.
type GenerationConfig struct {
	Provider        string       `mapstructure:"provider"` // vertex | openai
	Project         string       `mapstructure:"project"`
	Location        string       `mapstructure:"location"`
	Model           string       `mapstructure:"model"`
	Temperature     float64      `mapstructure:"temperature"`
	MaxOutputTokens int          `mapstructure:"max_output_tokens"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type RegistryConfig struct {
	Backend      string         `mapstructure:"backend"` // mlflow | postgres | none
	UserPrompt   string         `mapstructure:"user_prompt"`
	SystemPrompt string         `mapstructure:"system_prompt"`
	Alias        string         `mapstructure:"alias"`
	Timeout      time.Duration  `mapstructure:"timeout"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MLflowConfig struct {
	TrackingURI string        `mapstructure:"tracking_uri"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type TrackingConfig struct {
	Backend     string      `mapstructure:"backend"` // mlflow | redis | none
	Experiment  string      `mapstructure:"experiment"`
	TrackDirect bool        `mapstructure:"track_direct"`
	Redis       RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Stream   string `mapstructure:"stream"`
}

type ObservabilityConfig struct {
	Tracing      string `mapstructure:"tracing"` // none | stdout | otlp
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	MetricsPath  string `mapstructure:"metrics_path"`
}
