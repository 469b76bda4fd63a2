// Package router runs one legal query through classification, retrieval,
// formal answer generation and simplification.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/classifier"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/corpus"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/domain"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/llm"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/logging"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/metrics"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/retrieval"
)

// Deps are the collaborators of a Router. Metrics may be nil.
type Deps struct {
	Classifier classifier.Classifier
	Store      *corpus.Store
	Retriever  *retrieval.Retriever
	Answerer   llm.Answerer
	Metrics    *metrics.Metrics
}

// Config is the routing table: domain label to ordered document ids, and the
// default number of sections to retrieve.
type Config struct {
	Domains map[string][]string
	TopK    int
}

type Router struct {
	deps Deps
	cfg  Config
}

func New(deps Deps, cfg Config) *Router {
	return &Router{deps: deps, cfg: cfg}
}

// Route answers query. topK <= 0 uses the configured default. Every returned
// error is a *domain.AppError.
func (r *Router) Route(ctx context.Context, query string, topK int) (*domain.RoutedResponse, error) {
	resp, err := r.route(ctx, query, topK)
	if err != nil {
		r.deps.Metrics.ObserveOutcome(string(domain.CategoryOf(err)))
		return nil, err
	}
	r.deps.Metrics.ObserveOutcome("ok")
	return resp, nil
}

func (r *Router) route(ctx context.Context, query string, topK int) (*domain.RoutedResponse, error) {
	req := domain.RouteRequest{Query: query}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = r.cfg.TopK
	}
	if r.deps.Store == nil || r.deps.Store.Len() == 0 {
		return nil, domain.NewConfigurationError("document store is empty")
	}

	totalStart := time.Now()
	reqAttr := logging.LogAttrs(ctx)
	var warnings []string

	// Step 1: classify.
	start := time.Now()
	label, err := r.deps.Classifier.Predict(ctx, query)
	classifyLatency := time.Since(start)
	r.deps.Metrics.ObserveStage(metrics.StageClassify, start)
	if err != nil {
		slog.ErrorContext(ctx, "classification failed", reqAttr, "error", err)
		return nil, domain.NewServiceError("query classification failed", err)
	}
	docIDs, ok := r.cfg.Domains[label]
	if !ok {
		slog.ErrorContext(ctx, "unknown domain label", reqAttr, "domain", label)
		return nil, domain.NewConfigurationError(fmt.Sprintf("classifier returned unknown domain %q", label))
	}
	r.deps.Metrics.ObserveDomain(label)
	slog.InfoContext(ctx, "query classified", reqAttr, "domain", label, "classify_ms", classifyLatency.Milliseconds())

	// Step 2: retrieve from the domain's documents.
	start = time.Now()
	docs := r.deps.Store.Subset(docIDs)
	if len(docs) == 0 {
		warnings = append(warnings, fmt.Sprintf("no documents loaded for domain %q", label))
	}
	sections := r.deps.Retriever.Retrieve(query, docs, topK)
	fallback := retrieval.IsFallback(sections)
	retrieveLatency := time.Since(start)
	r.deps.Metrics.ObserveStage(metrics.StageRetrieve, start)
	r.deps.Metrics.ObserveRetrieval(len(sections), fallback)
	slog.InfoContext(ctx, "retrieval done", reqAttr,
		"domain", label,
		"num_documents", len(docs),
		"num_sections", len(sections),
		"fallback", fallback,
		"retrieve_ms", retrieveLatency.Milliseconds(),
	)

	// Step 3: formal answer.
	start = time.Now()
	raw, err := r.deps.Answerer.Generate(ctx, query, sections)
	genLatency := time.Since(start)
	r.deps.Metrics.ObserveStage(metrics.StageGenerate, start)
	if err != nil {
		slog.ErrorContext(ctx, "generation failed", reqAttr, "error", err)
		return nil, domain.NewServiceError("answer generation failed", err)
	}
	formal, formalOK := llm.ParseFormal(raw)
	if !formalOK {
		r.deps.Metrics.ObserveContractViolation("formal")
		warnings = append(warnings, "formal answer missing "+llm.FormalMarker+" marker")
	}

	// Step 4: simplified answer.
	start = time.Now()
	rawSimple, err := r.deps.Answerer.Simplify(ctx, query, formal, sections)
	simplifyLatency := time.Since(start)
	r.deps.Metrics.ObserveStage(metrics.StageSimplify, start)
	if err != nil {
		slog.ErrorContext(ctx, "simplification failed", reqAttr, "error", err)
		return nil, domain.NewServiceError("answer simplification failed", err)
	}
	// A formal reply without its marker was taken whole, so there is no
	// distinct second tier to report whatever the simplifier returned.
	simplified, simplifiedOK := llm.ParseSimplified(rawSimple)
	if !formalOK {
		simplifiedOK = false
	}
	if !simplifiedOK {
		r.deps.Metrics.ObserveContractViolation("simplified")
		warnings = append(warnings, "simplified answer unavailable")
		simplified = domain.SimplifiedUnavailable
	}

	notInDataset := llm.IsNotAvailable(formal)

	slog.InfoContext(ctx, "query routed", reqAttr,
		"domain", label,
		"num_sections", len(sections),
		"formal_ok", formalOK,
		"simplified_ok", simplifiedOK,
		"not_in_dataset", notInDataset,
		"classify_ms", classifyLatency.Milliseconds(),
		"retrieve_ms", retrieveLatency.Milliseconds(),
		"generate_ms", genLatency.Milliseconds(),
		"simplify_ms", simplifyLatency.Milliseconds(),
		"total_ms", time.Since(totalStart).Milliseconds(),
	)

	if warnings == nil {
		warnings = []string{}
	}
	return &domain.RoutedResponse{
		Domain:              label,
		Sections:            sections,
		FormalAnswer:        formal,
		SimplifiedAnswer:    simplified,
		SimplifiedAvailable: simplifiedOK,
		Meta: domain.Meta{
			TopK:         topK,
			Fallback:     fallback,
			NotInDataset: notInDataset,
			Warnings:     warnings,
		},
	}, nil
}
