package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:repost.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Feed struct {
		Base      string        `yaml:"base" json:"base" jsonschema:"default=https://rsshub.app,description=Feed endpoint base URL"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=12s,description=Feed fetch timeout"`
		UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=repost-bot/1.0,description=User agent for feed requests"`
	} `yaml:"feed" json:"feed" jsonschema:"description=Feed fetching configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for post summarization"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram delivery configuration"`

	Schedule struct {
		IngestInterval    time.Duration `yaml:"ingest_interval" json:"ingest_interval" jsonschema:"default=60m,description=Interval between ingest sweeps"`
		TransformInterval time.Duration `yaml:"transform_interval" json:"transform_interval" jsonschema:"default=60m,description=Interval between transform sweeps"`
		PublishInterval   time.Duration `yaml:"publish_interval" json:"publish_interval" jsonschema:"default=60m,description=Interval between publish sweeps"`
		MaxWorkers        int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Maximum concurrent workers per sweep"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Sweep scheduling configuration"`
}

// LLMConfig holds summarization provider configuration
type LLMConfig struct {
	Provider       string        `yaml:"provider" json:"provider" jsonschema:"default=openai,description=Summarization provider name"`
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (optional)"`
	APIKey         string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model          string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature    float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens      int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	PromptTemplate string        `yaml:"prompt_template" json:"prompt_template" jsonschema:"description=Summary prompt with {text} placeholder"`
}

// TelegramConfig holds Telegram bot delivery settings
type TelegramConfig struct {
	BotToken              string `yaml:"bot_token" json:"bot_token" jsonschema:"description=Bot token (can use environment variable)"`
	ParseMode             string `yaml:"parse_mode" json:"parse_mode" jsonschema:"default=HTML,description=Message formatting mode"`
	DisableWebPagePreview bool   `yaml:"disable_web_page_preview" json:"disable_web_page_preview" jsonschema:"default=false,description=Disable link previews in messages"`
}

// defaultPromptTemplate matches the summary register the channels expect
const defaultPromptTemplate = "Сожми текст в 2–3 предложения новостного формата на русском, без воды.\n" +
	"Выдели факт/событие и итог для читателя.\nТекст:\n{text}"

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:repost.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	if cfg.Feed.Base == "" {
		cfg.Feed.Base = "https://rsshub.app"
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = 12 * time.Second
	}
	if cfg.Feed.UserAgent == "" {
		cfg.Feed.UserAgent = "repost-bot/1.0"
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.PromptTemplate == "" {
		cfg.LLM.PromptTemplate = defaultPromptTemplate
	}

	if cfg.Telegram.ParseMode == "" {
		cfg.Telegram.ParseMode = "HTML"
	}

	if cfg.Schedule.IngestInterval == 0 {
		cfg.Schedule.IngestInterval = time.Hour
	}
	if cfg.Schedule.TransformInterval == 0 {
		cfg.Schedule.TransformInterval = time.Hour
	}
	if cfg.Schedule.PublishInterval == 0 {
		cfg.Schedule.PublishInterval = time.Hour
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 5
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.LLM.Provider != "openai" {
		return fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.Feed.Timeout < time.Second {
		return fmt.Errorf("feed.timeout must be at least 1 second")
	}
	if cfg.Schedule.MaxWorkers < 1 {
		return fmt.Errorf("schedule.max_workers must be at least 1")
	}
	return nil
}
