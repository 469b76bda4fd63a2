// Package app assembles the routing pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/classifier"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/config"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/corpus"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/llm"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/metrics"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/retrieval"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/router"
)

// App is a fully wired pipeline.
type App struct {
	Config   *config.Config
	Store    *corpus.Store
	Router   *router.Router
	Registry *prometheus.Registry
}

// New loads the routing table, corpus and prompts named by env and builds the
// router. Corpus files that fail to load are logged and skipped; an empty
// store is allowed and reported per request.
func New(ctx context.Context, env config.Env) (*App, error) {
	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		return nil, err
	}
	if env.ClassifierURL != "" {
		cfg.Classifier.Endpoint = env.ClassifierURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", env.ConfigPath, err)
	}
	slog.Info("config loaded", "path", env.ConfigPath, "domains", cfg.Labels(), "top_k", cfg.TopK)

	store, err := corpus.Load(env.CorpusDir)
	if err != nil {
		slog.Warn("some corpus files failed to load", "dir", env.CorpusDir, "error", err)
	}
	if store.Len() == 0 {
		slog.Warn("document store is empty", "dir", env.CorpusDir)
	}
	for _, w := range cfg.Warnings(store) {
		slog.Warn("routing table", "warning", w)
	}
	slog.Info("corpus loaded", "dir", env.CorpusDir, "documents", store.Len(), "sections", store.SectionCount())

	ret, err := retrieval.New(cfg.Boosts, cfg.Stopwords)
	if err != nil {
		return nil, err
	}

	prompts, err := llm.LoadPrompts(env.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	slog.Info("prompts loaded", "path", env.PromptsPath)

	model, err := llm.NewTextModel(ctx, env.Model)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	slog.Info("llm client ready", "provider", env.Model.Provider, "model", env.Model.Model)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := router.New(router.Deps{
		Classifier: newClassifier(cfg.Classifier),
		Store:      store,
		Retriever:  ret,
		Answerer:   llm.NewPromptAnswerer(model, prompts),
		Metrics:    metrics.New(reg),
	}, router.Config{
		Domains: cfg.Domains,
		TopK:    cfg.TopK,
	})

	return &App{Config: cfg, Store: store, Router: r, Registry: reg}, nil
}

func newClassifier(cfg config.ClassifierConfig) classifier.Classifier {
	if cfg.Endpoint != "" {
		slog.Info("using external classifier", "endpoint", cfg.Endpoint)
		return classifier.NewHTTPClassifier(cfg.Endpoint, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	}
	slog.Info("using keyword classifier", "default_label", cfg.DefaultLabel, "rules", len(cfg.Rules))
	return classifier.NewKeywordClassifier(cfg.Rules, cfg.DefaultLabel)
}
