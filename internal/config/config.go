// Package config loads the routing table (YAML) and process settings (env).
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/classifier"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/corpus"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/retrieval"
)

// Config is the routing configuration: which documents each domain label
// searches, how many sections to return and the boost rule table.
type Config struct {
	TopK       int                   `yaml:"top_k"`
	Domains    map[string][]string   `yaml:"domains"`
	Boosts     []retrieval.BoostRule `yaml:"boosts"`
	Stopwords  []string              `yaml:"stopwords"`
	Classifier ClassifierConfig      `yaml:"classifier"`
}

// ClassifierConfig selects the category classifier. With an endpoint the
// external predict service is used; otherwise the keyword rules.
type ClassifierConfig struct {
	Endpoint     string                   `yaml:"endpoint"`
	TimeoutMs    int                      `yaml:"timeout_ms"`
	DefaultLabel string                   `yaml:"default_label"`
	Rules        []classifier.KeywordRule `yaml:"rules"`
}

const DefaultTopK = 4

// Default returns the built-in routing table.
func Default() *Config {
	return &Config{
		TopK: DefaultTopK,
		Domains: map[string][]string{
			"criminal":       {"IPC", "CrPC"},
			"civil":          {"CivilCode"},
			"constitutional": {"Constitution"},
		},
		Boosts: append([]retrieval.BoostRule(nil), retrieval.DefaultBoostRules...),
		Classifier: ClassifierConfig{
			TimeoutMs:    5000,
			DefaultLabel: "criminal",
			Rules: []classifier.KeywordRule{
				{Label: "criminal", Keywords: []string{"theft", "murder", "assault", "fir", "bail", "arrest", "police", "crime", "punishment", "ipc", "crpc", "cheating", "kidnapping"}},
				{Label: "civil", Keywords: []string{"contract", "property", "tenant", "landlord", "divorce", "inheritance", "succession", "suit", "damages", "injunction"}},
				{Label: "constitutional", Keywords: []string{"constitution", "article", "fundamental right", "fundamental rights", "writ", "parliament", "president", "supreme court", "equality"}},
			},
		},
	}
}

// Load reads the YAML file at path. A missing file yields Default. Fields left
// out of the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content, filling omitted fields from Default.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	def := Default()
	if c.TopK == 0 {
		c.TopK = def.TopK
	}
	if c.Domains == nil {
		c.Domains = def.Domains
	}
	if c.Boosts == nil {
		c.Boosts = def.Boosts
	}
	if c.Classifier.TimeoutMs == 0 {
		c.Classifier.TimeoutMs = def.Classifier.TimeoutMs
	}
	if c.Classifier.DefaultLabel == "" {
		c.Classifier.DefaultLabel = def.Classifier.DefaultLabel
	}
	if c.Classifier.Rules == nil {
		c.Classifier.Rules = def.Classifier.Rules
	}
	return &c, nil
}

// Validate reports structural problems that make the table unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.TopK < 1 {
		errs = append(errs, fmt.Errorf("top_k must be >= 1, got %d", c.TopK))
	}
	if len(c.Domains) == 0 {
		errs = append(errs, errors.New("domains: at least one label is required"))
	}
	if _, err := retrieval.New(c.Boosts, c.Stopwords); err != nil {
		errs = append(errs, err)
	}
	if c.Classifier.Endpoint == "" {
		if _, ok := c.Domains[c.Classifier.DefaultLabel]; !ok {
			errs = append(errs, fmt.Errorf("classifier default_label %q is not a configured domain", c.Classifier.DefaultLabel))
		}
		for _, r := range c.Classifier.Rules {
			if _, ok := c.Domains[r.Label]; !ok {
				errs = append(errs, fmt.Errorf("classifier rule label %q is not a configured domain", r.Label))
			}
		}
	}
	return errors.Join(errs...)
}

// Warnings lists labels that will retrieve nothing against store.
func (c *Config) Warnings(store *corpus.Store) []string {
	var out []string
	for _, label := range c.Labels() {
		ids := c.Domains[label]
		if len(ids) == 0 {
			out = append(out, fmt.Sprintf("domain %q has no documents configured", label))
			continue
		}
		var missing []string
		for _, id := range ids {
			if _, ok := store.Get(id); !ok {
				missing = append(missing, id)
			}
		}
		switch {
		case len(missing) == len(ids):
			out = append(out, fmt.Sprintf("domain %q: none of its documents are loaded (%s)", label, strings.Join(missing, ", ")))
		case len(missing) > 0:
			out = append(out, fmt.Sprintf("domain %q: documents not loaded: %s", label, strings.Join(missing, ", ")))
		}
	}
	return out
}

// Labels returns the configured domain labels, sorted.
func (c *Config) Labels() []string {
	labels := make([]string, 0, len(c.Domains))
	for l := range c.Domains {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
