package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIModel_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  FORMAL ANSWER: Section 379.  "}}]}`)
	}))
	defer srv.Close()

	m := NewOpenAIModel(ModelConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	got, err := m.Complete(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "FORMAL ANSWER: Section 379.", got)
}

func TestOpenAIModel_Temperature(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float64
	}{
		{"zero is sent as zero", 0, 0},
		{"explicit value", 0.7, 0.7},
		{"negative selects default", -1, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got float64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				temp, ok := body["temperature"].(float64)
				assert.True(t, ok, "temperature missing from request body")
				got = temp
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
					"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`)
			}))
			defer srv.Close()

			m := NewOpenAIModel(ModelConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", Temperature: tt.in})
			_, err := m.Complete(context.Background(), "prompt")

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestOpenAIModel_NoRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	m := NewOpenAIModel(ModelConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	_, err := m.Complete(context.Background(), "prompt")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewTextModel_OllamaUsesOpenAICompatibleEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"mistral",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	m, err := NewTextModel(context.Background(), ModelConfig{Provider: "ollama", BaseURL: srv.URL, Model: "mistral"})
	require.NoError(t, err)

	got, err := m.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestGeminiModel_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"FORMAL ANSWER: Section 378."}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	m, err := NewGeminiModel(context.Background(), ModelConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := m.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "FORMAL ANSWER: Section 378.", got)
}

func TestNewGeminiModel_RequiresCredentials(t *testing.T) {
	_, err := NewGeminiModel(context.Background(), ModelConfig{})
	assert.Error(t, err)
}
