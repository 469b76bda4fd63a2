package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"google.golang.org/genai"
)

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ModelConfig selects and configures the backing model service.
type ModelConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	ProjectID   string // Vertex AI, gemini only
	Region      string
	Temperature float32 // negative selects the default; zero is honoured
	Timeout     time.Duration
}

// NewTextModel builds the TextModel for cfg.Provider, wrapped with cfg.Timeout.
func NewTextModel(ctx context.Context, cfg ModelConfig) (TextModel, error) {
	var (
		m   TextModel
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		m, err = NewGeminiModel(ctx, cfg)
	case ProviderOpenAI:
		m = NewOpenAIModel(cfg)
	case ProviderOllama:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434"
		}
		// Ollama serves an OpenAI-compatible API under /v1.
		cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1/"
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		m = NewOpenAIModel(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(m, cfg.Timeout), nil
}

// GeminiModel implements TextModel using the google.golang.org/genai SDK.
type GeminiModel struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiModel uses the Vertex AI backend when a project is configured and
// the Gemini API with an API key otherwise.
func NewGeminiModel(ctx context.Context, cfg ModelConfig) (*GeminiModel, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.ProjectID != "" {
		cc = &genai.ClientConfig{
			Project:  cfg.ProjectID,
			Location: cfg.Region,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: GOOGLE_API_KEY or GCP_PROJECT_ID is required")
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiModel{client: client, model: model, temperature: temperatureOrDefault(cfg.Temperature)}, nil
}

func (m *GeminiModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx,
		m.model,
		[]*genai.Content{
			{Parts: []*genai.Part{{Text: prompt}}, Role: "user"},
		},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(m.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// OpenAIModel implements TextModel over the chat completions API. It also
// serves Ollama through its OpenAI-compatible endpoint.
type OpenAIModel struct {
	client      openai.Client
	model       string
	temperature float32
}

func NewOpenAIModel(cfg ModelConfig) *OpenAIModel {
	// Retries are left to the caller.
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIModel{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperatureOrDefault(cfg.Temperature),
	}
}

func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(m.temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func temperatureOrDefault(t float32) float32 {
	if t < 0 {
		return 0.3
	}
	return t
}

type timeoutModel struct {
	next    TextModel
	timeout time.Duration
}

// WithTimeout bounds every Complete call by d. A non-positive d returns m as is.
func WithTimeout(m TextModel, d time.Duration) TextModel {
	if d <= 0 {
		return m
	}
	return &timeoutModel{next: m, timeout: d}
}

func (t *timeoutModel) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, prompt)
}
