package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/llm"
)

// Env holds process settings read from the environment.
type Env struct {
	Port           string
	AllowOrigin    string
	ConfigPath     string
	CorpusDir      string
	PromptsPath    string
	ClassifierURL  string
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
	Model          llm.ModelConfig
}

// LoadDotEnv loads path into the environment if it exists. Variables already
// set win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv reads Env from environment variables.
func FromEnv() Env {
	provider := strings.ToLower(envOrDefault("LLM_PROVIDER", llm.ProviderGemini))
	timeout := time.Duration(envOrDefaultInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second

	model := llm.ModelConfig{Provider: provider, Timeout: timeout}
	switch provider {
	case llm.ProviderOpenAI:
		model.APIKey = os.Getenv("OPENAI_API_KEY")
		model.Model = envOrDefault("OPENAI_MODEL", "gpt-4o-mini")
		model.BaseURL = os.Getenv("OPENAI_BASE_URL")
	case llm.ProviderOllama:
		model.BaseURL = envOrDefault("OLLAMA_URL", "http://localhost:11434")
		model.Model = envOrDefault("OLLAMA_MODEL", "mistral")
	default:
		model.APIKey = os.Getenv("GOOGLE_API_KEY")
		model.Model = envOrDefault("GEMINI_MODEL", "gemini-2.5-flash")
		model.ProjectID = os.Getenv("GCP_PROJECT_ID")
		model.Region = envOrDefault("GCP_REGION", "us-central1")
	}
	model.Temperature = float32(envOrDefaultFloat("LLM_TEMPERATURE", 0.3))

	return Env{
		Port:           envOrDefault("PORT", "8000"),
		AllowOrigin:    envOrDefault("ALLOW_ORIGIN", "*"),
		ConfigPath:     envOrDefault("CONFIG_PATH", "config/routing.yaml"),
		CorpusDir:      envOrDefault("CORPUS_DIR", "processed_data"),
		PromptsPath:    envOrDefault("PROMPTS_PATH", "docs/prompts.md"),
		ClassifierURL:  os.Getenv("CLASSIFIER_URL"),
		RateLimitRPS:   envOrDefaultFloat("RATE_LIMIT_RPS", 5.0),
		RateLimitBurst: envOrDefaultInt("RATE_LIMIT_BURST", 10),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		Model:          model,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
