package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/domain"
)

// NotAvailable is the sentinel the model is told to reply with when the
// supplied sections do not answer the question.
const NotAvailable = "Not available in dataset"

// Tier markers the prompts ask the model to emit.
const (
	FormalMarker     = "FORMAL ANSWER:"
	SimplifiedMarker = "SIMPLIFIED ANSWER:"
)

var (
	formalMarkerRe     = foldRe(FormalMarker)
	simplifiedMarkerRe = foldRe(SimplifiedMarker)
	notAvailableRe     = foldRe(NotAvailable)
)

func foldRe(s string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(s))
}

// TextModel is the narrow contract with the generative model: one prompt in,
// one text out.
type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Answerer produces the two answer tiers. Simplify depends on Generate's output
// and is only called after Generate succeeds.
type Answerer interface {
	Generate(ctx context.Context, query string, sections []domain.SectionMatch) (string, error)
	Simplify(ctx context.Context, query, formalAnswer string, sections []domain.SectionMatch) (string, error)
}

// PromptAnswerer implements Answerer by rendering the prompt templates and
// sending them to a single TextModel.
type PromptAnswerer struct {
	model   TextModel
	prompts *PromptTemplates
}

func NewPromptAnswerer(model TextModel, prompts *PromptTemplates) *PromptAnswerer {
	return &PromptAnswerer{model: model, prompts: prompts}
}

func (a *PromptAnswerer) Generate(ctx context.Context, query string, sections []domain.SectionMatch) (string, error) {
	prompt := RenderTemplate(a.prompts.LegalAnswer, map[string]string{
		"query":   query,
		"context": BuildContext(sections),
	})

	text, err := a.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("generate answer: empty response")
	}
	return text, nil
}

func (a *PromptAnswerer) Simplify(ctx context.Context, query, formalAnswer string, sections []domain.SectionMatch) (string, error) {
	prompt := RenderTemplate(a.prompts.SimplifiedAnswer, map[string]string{
		"query":         query,
		"formal_answer": formalAnswer,
		"context":       BuildContext(sections),
	})

	text, err := a.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("simplify answer: %w", err)
	}
	return text, nil
}

// BuildContext renders sections as "{section_id}: {text}" blocks separated by
// blank lines.
func BuildContext(sections []domain.SectionMatch) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.SectionID+": "+s.Text)
	}
	return strings.Join(parts, "\n\n")
}

// ParseFormal extracts the formal tier. Without the marker the whole reply is
// the formal answer and ok is false.
func ParseFormal(raw string) (formal string, ok bool) {
	body, found := afterMarker(raw, formalMarkerRe)
	if !found {
		return strings.TrimSpace(raw), false
	}
	if loc := simplifiedMarkerRe.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return cleanTier(body), true
}

// ParseSimplified extracts the simplified tier: the text after the marker, or
// the whole reply when the marker is missing. An empty tier is rejected.
func ParseSimplified(raw string) (string, bool) {
	body, found := afterMarker(raw, simplifiedMarkerRe)
	if !found {
		body = raw
	}
	body = cleanTier(body)
	return body, body != ""
}

// IsNotAvailable reports whether answer carries the not-in-dataset sentinel.
func IsNotAvailable(answer string) bool {
	return notAvailableRe.MatchString(answer)
}

func afterMarker(s string, marker *regexp.Regexp) (string, bool) {
	loc := marker.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	return s[loc[1]:], true
}

// cleanTier trims whitespace and markdown bold left around a marker, e.g.
// "**FORMAL ANSWER:** text".
func cleanTier(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "**"))
	if strings.HasSuffix(s, "**") && strings.Count(s, "**")%2 == 1 {
		s = strings.TrimSpace(strings.TrimSuffix(s, "**"))
	}
	return s
}
