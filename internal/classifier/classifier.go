// Package classifier maps a legal question to a domain label such as
// "criminal" or "civil". The label set is owned by the routing configuration.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/retrieval"
)

// Classifier abstracts the pre-trained category model for testability.
type Classifier interface {
	Predict(ctx context.Context, query string) (string, error)
}

// HTTPClassifier calls an external predict service.
//
// Request:  POST {endpoint} {"query": "..."}
// Response: {"label": "criminal", "probabilities": {"criminal": 0.91, ...}}
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

type predictRequest struct {
	Query string `json:"query"`
}

type predictResponse struct {
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// NewHTTPClassifier creates a client for the predict service.
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClassifier) Predict(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(predictRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("predict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("predict: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parse predict response: %w", err)
	}
	label := strings.TrimSpace(out.Label)
	if label == "" {
		return "", fmt.Errorf("predict: empty label")
	}

	slog.DebugContext(ctx, "category predicted", "label", label, "probabilities", out.Probabilities)
	return label, nil
}

// KeywordRule votes for Label once per keyword found in the query. A keyword
// matches whole words only; a multi-word keyword must appear as consecutive
// words.
type KeywordRule struct {
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// KeywordClassifier is a deterministic local stand-in for the trained model.
// The label with the most keyword hits wins; ties go to the earlier rule and a
// query with no hits gets the default label.
type KeywordClassifier struct {
	rules        []tokenRule
	defaultLabel string
}

type tokenRule struct {
	label    string
	keywords [][]string
}

func NewKeywordClassifier(rules []KeywordRule, defaultLabel string) *KeywordClassifier {
	compiled := make([]tokenRule, 0, len(rules))
	for _, r := range rules {
		kws := make([][]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if toks := retrieval.Tokenize(kw); len(toks) > 0 {
				kws = append(kws, toks)
			}
		}
		compiled = append(compiled, tokenRule{label: r.Label, keywords: kws})
	}
	return &KeywordClassifier{rules: compiled, defaultLabel: defaultLabel}
}

func (c *KeywordClassifier) Predict(_ context.Context, query string) (string, error) {
	q := retrieval.Tokenize(query)
	best, bestHits := c.defaultLabel, 0
	for _, r := range c.rules {
		hits := 0
		for _, kw := range r.keywords {
			if containsSeq(q, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = r.label, hits
		}
	}
	return best, nil
}

func containsSeq(tokens, seq []string) bool {
	for i := 0; i+len(seq) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(seq)], seq) {
			return true
		}
	}
	return false
}

// Static always returns the same label.
type Static string

func (s Static) Predict(context.Context, string) (string, error) {
	return string(s), nil
}
