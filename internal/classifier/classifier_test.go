package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClassifier_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "punishment for theft", req.Query)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"label":" criminal ","probabilities":{"criminal":0.9,"civil":0.1}}`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	label, err := c.Predict(context.Background(), "punishment for theft")

	require.NoError(t, err)
	assert.Equal(t, "criminal", label)
}

func TestHTTPClassifier_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"non-2xx", http.StatusServiceUnavailable, "model loading", "status 503"},
		{"malformed", http.StatusOK, "not json", "parse predict response"},
		{"empty label", http.StatusOK, `{"label":""}`, "empty label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClassifier(srv.URL, time.Second).Predict(context.Background(), "q")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPClassifier_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"label":"civil"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClassifier(srv.URL, 20*time.Millisecond).Predict(context.Background(), "q")
	assert.Error(t, err)
}

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier([]KeywordRule{
		{Label: "criminal", Keywords: []string{"theft", "murder", "bail"}},
		{Label: "civil", Keywords: []string{"contract", "property", "Tenant"}},
		{Label: "constitutional", Keywords: []string{"article", "fundamental right"}},
	}, "criminal")

	tests := []struct {
		query string
		want  string
	}{
		{"What is the punishment for theft?", "criminal"},
		{"Can my tenant break the contract?", "civil"},
		{"Is privacy a FUNDAMENTAL RIGHT under Article 21?", "constitutional"},
		{"theft of property", "criminal"}, // tie, earlier rule wins
		{"hello", "criminal"},
	}
	for _, tt := range tests {
		got, err := c.Predict(context.Background(), tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestKeywordClassifier_WholeWords(t *testing.T) {
	c := NewKeywordClassifier([]KeywordRule{
		{Label: "criminal", Keywords: []string{"fir", "arrest"}},
		{Label: "constitutional", Keywords: []string{"article", "fundamental right", "supreme court"}},
	}, "civil")

	tests := []struct {
		query string
		want  string
	}{
		{"Who inherits first under the will?", "civil"},
		{"Please confirm the sale deed", "civil"},
		{"How do I file an FIR?", "criminal"},
		{"Police refused to register my F.I.R.", "civil"},
		{"My articles of association are outdated", "civil"},
		{"Appeal to the Supreme Court", "constitutional"},
		{"A supreme effort in court", "civil"},
		{"Right to fundamental education", "civil"},
		{"Is this a fundamental right?", "constitutional"},
	}
	for _, tt := range tests {
		got, err := c.Predict(context.Background(), tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestStatic(t *testing.T) {
	got, err := Static("civil").Predict(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "civil", got)
}
