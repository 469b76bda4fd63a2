package domain

import (
	"fmt"
	"strings"
)

// RouteRequest is the JSON body for POST /chatbot and POST /route.
type RouteRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

const (
	MaxQueryLen = 2000
	MaxTopK     = 20
)

// Validate rejects blank and oversized queries.
func (r *RouteRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return NewValidationError("query is required")
	}
	if len([]rune(r.Query)) > MaxQueryLen {
		return NewValidationError(fmt.Sprintf("query must be <= %d characters", MaxQueryLen))
	}
	return nil
}

// EffectiveTopK returns the requested top_k when it is within 1..MaxTopK,
// otherwise the provided default.
func (r *RouteRequest) EffectiveTopK(defaultTopK int) int {
	if r.TopK != nil {
		v := *r.TopK
		if v >= 1 && v <= MaxTopK {
			return v
		}
	}
	return defaultTopK
}
