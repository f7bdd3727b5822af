package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const dotEnvPath = ".env"

// Summarizer holds everything needed to reach the inference endpoint. It is
// shared by the bot and the one-shot CLI.
type Summarizer struct {
	APIKey           string        `env:"API_KEY,required,notEmpty"`
	BaseURL          string        `env:"BASE_URL"          envDefault:"https://inference.samaira.ai/openai/v1"`
	Model            string        `env:"MODEL"             envDefault:"mistral-7b-instruct-v0.3"`
	Provider         string        `env:"PROVIDER"          envDefault:"openai"`
	SummarizeTimeout time.Duration `env:"SUMMARIZE_TIMEOUT" envDefault:"90s"`
	SummaryCacheTTL  time.Duration `env:"SUMMARY_CACHE_TTL" envDefault:"6h"`
}

// Extractor configures webpage, transcript and upload handling.
type Extractor struct {
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT"    envDefault:"30s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
}

type Config struct {
	Token        string        `env:"TOKEN,required,notEmpty"`
	AllowedUsers []int64       `env:"ALLOWED_USERS"`
	DBPath       string        `env:"DB_PATH"   envDefault:"db.sqlite"`
	DraftTTL     time.Duration `env:"DRAFT_TTL" envDefault:"1h"`

	Summarizer Summarizer
	Extractor  Extractor
}

// CLIConfig is the subset used by cmd/summarize, which has no Telegram side.
type CLIConfig struct {
	Summarizer Summarizer
	Extractor  Extractor
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadCLIConfig() (CLIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return CLIConfig{}, err
	}

	var cfg CLIConfig
	if err := env.Parse(&cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Summarizer.validate(); err != nil {
		return CLIConfig{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.DraftTTL <= 0 {
		return errors.New("DRAFT_TTL must be positive")
	}

	return c.Summarizer.validate()
}

func (s Summarizer) validate() error {
	switch s.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", s.Provider, ProviderOpenAI, ProviderGemini)
	}

	if s.SummarizeTimeout <= 0 {
		return errors.New("SUMMARIZE_TIMEOUT must be positive")
	}

	return nil
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

func loadDotEnv() error {
	err := godotenv.Load(dotEnvPath)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", dotEnvPath, err)
}
