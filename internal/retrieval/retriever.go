// Package retrieval ranks statute sections against a query by lexical overlap
// plus a table of keyword boost rules.
package retrieval

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/corpus"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/domain"
)

// BoostRule adds Bonus to a section whose id matches SectionPattern when the raw
// query contains Trigger (case-insensitive).
type BoostRule struct {
	Trigger        string `yaml:"trigger" json:"trigger"`
	SectionPattern string `yaml:"section_pattern" json:"section_pattern"`
	Bonus          int    `yaml:"bonus" json:"bonus"`
}

// DefaultBoostRules is the built-in rule table: theft questions favour the IPC
// theft definition and punishment sections.
var DefaultBoostRules = []BoostRule{
	{Trigger: "theft", SectionPattern: "378|379", Bonus: 5},
}

type compiledRule struct {
	trigger string
	pattern *regexp.Regexp
	bonus   int
}

// Retriever scores sections. It holds no per-request state and is safe for
// concurrent use.
type Retriever struct {
	rules     []compiledRule
	stopwords map[string]bool
}

// New compiles the rule table. Stopwords are dropped from query tokens before
// scoring; pass nil to keep every token.
func New(rules []BoostRule, stopwords []string) (*Retriever, error) {
	r := &Retriever{stopwords: make(map[string]bool, len(stopwords))}
	for i, rule := range rules {
		if strings.TrimSpace(rule.Trigger) == "" {
			return nil, fmt.Errorf("boost rule %d: empty trigger", i)
		}
		if rule.Bonus < 0 {
			return nil, fmt.Errorf("boost rule %d: negative bonus %d", i, rule.Bonus)
		}
		re, err := regexp.Compile(rule.SectionPattern)
		if err != nil {
			return nil, fmt.Errorf("boost rule %d: section pattern: %w", i, err)
		}
		r.rules = append(r.rules, compiledRule{
			trigger: strings.ToLower(rule.Trigger),
			pattern: re,
			bonus:   rule.Bonus,
		})
	}
	for _, w := range stopwords {
		r.stopwords[strings.ToLower(w)] = true
	}
	return r, nil
}

// Tokenize lowercases text and splits it into runs of letters and digits,
// discarding everything else.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// queryTokens returns distinct non-stopword tokens in first-seen order.
func (r *Retriever) queryTokens(query string) []string {
	tokens := Tokenize(query)
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if seen[tok] || r.stopwords[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Retrieve returns at most topK sections from docs ranked by score. When no
// section scores above zero it returns the first topK sections in document
// order with score 0, so generation always has some context.
func (r *Retriever) Retrieve(query string, docs []*corpus.Document, topK int) []domain.SectionMatch {
	if topK <= 0 {
		return []domain.SectionMatch{}
	}

	rawQuery := strings.ToLower(query)
	tokens := r.queryTokens(query)

	var active []compiledRule
	for _, rule := range r.rules {
		if strings.Contains(rawQuery, rule.trigger) {
			active = append(active, rule)
		}
	}

	var results []domain.SectionMatch
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			score := scoreSection(sec, tokens, active)
			if score > 0 {
				results = append(results, domain.SectionMatch{
					DocumentID: doc.ID,
					SectionID:  sec.ID,
					Text:       strings.TrimSpace(sec.Text),
					Score:      score,
				})
			}
		}
	}

	if len(results) == 0 {
		return fallback(docs, topK)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func scoreSection(sec corpus.Section, tokens []string, active []compiledRule) int {
	score := 0
	for _, rule := range active {
		if rule.pattern.MatchString(sec.ID) {
			score += rule.bonus
		}
	}

	body := strings.ToLower(sec.Text)
	title := strings.ToLower(sec.ID)
	for _, tok := range tokens {
		if strings.Contains(body, tok) {
			score++
		}
		if strings.Contains(title, tok) {
			score++
		}
	}
	return score
}

func fallback(docs []*corpus.Document, topK int) []domain.SectionMatch {
	out := make([]domain.SectionMatch, 0, topK)
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			if len(out) == topK {
				return out
			}
			out = append(out, domain.SectionMatch{
				DocumentID: doc.ID,
				SectionID:  sec.ID,
				Text:       strings.TrimSpace(sec.Text),
			})
		}
	}
	return out
}

// IsFallback reports whether a non-empty result came from the fallback path.
func IsFallback(matches []domain.SectionMatch) bool {
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if m.Score > 0 {
			return false
		}
	}
	return true
}
