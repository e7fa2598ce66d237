package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/corefsieve/internal/cache"
	"github.com/ppiankov/corefsieve/internal/chain"
	"github.com/ppiankov/corefsieve/internal/filter"
	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/ppiankov/corefsieve/internal/order"
	"github.com/ppiankov/corefsieve/internal/relation"
	"github.com/ppiankov/corefsieve/internal/score"
	"github.com/ppiankov/corefsieve/internal/sieve"
	"github.com/ppiankov/corefsieve/internal/spanstore"
	"go.uber.org/zap"
)

// Pipeline orchestrates the complete resolution of a document
type Pipeline struct {
	loader    *Loader
	filter    *filter.Filter
	orderer   *order.Orderer
	relations *relation.Extractor
	engine    *sieve.Engine
	emitter   *chain.Emitter
	scorer    *score.Scorer
	renderer  *Renderer
	cache     cache.Cache // nil if disabled
	config    *model.Config
	logger    *zap.Logger
}

// Option customizes a pipeline
type Option func(*Pipeline)

// WithCache replaces the cache built from configuration
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithEngine replaces the sieve engine built from configuration
func WithEngine(e *sieve.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	orderer, err := order.NewOrderer(cfg.Resolve.FallbackOrder, logger.Named("order"))
	if err != nil {
		return nil, fmt.Errorf("orderer: %w", err)
	}
	engine, err := sieve.FromConfig(cfg.Resolve, logger.Named("sieve"))
	if err != nil {
		return nil, fmt.Errorf("sieves: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	p := &Pipeline{
		loader:    NewLoader(cfg.Input.MaxBytes),
		filter:    filter.NewFilter(logger.Named("filter")),
		orderer:   orderer,
		relations: relation.NewExtractor(cfg.Resolve.ParallelRelations, cfg.Concurrency.Workers, logger.Named("relation")),
		engine:    engine,
		emitter:   chain.NewEmitter(cfg.Resolve.DisplayNameMax),
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.IncludeTrace),
		cache:     c,
		config:    cfg,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ResolveResult contains the resolution of one document file
type ResolveResult struct {
	Path   string
	Result *model.Result
	Cached bool
}

// ResolveFile loads a document file and resolves it
func (p *Pipeline) ResolveFile(ctx context.Context, path string) (*ResolveResult, error) {
	loaded, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	result, cached, err := p.resolve(ctx, loaded.Document)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	return &ResolveResult{Path: path, Result: result, Cached: cached}, nil
}

// Resolve resolves a document. The input document is not modified.
func (p *Pipeline) Resolve(ctx context.Context, doc *model.Document) (*model.Result, error) {
	result, _, err := p.resolve(ctx, doc)
	return result, err
}

func (p *Pipeline) resolve(ctx context.Context, doc *model.Document) (*model.Result, bool, error) {
	var key string
	if p.cache != nil {
		k, err := cache.ResultKey(doc, p.config.Resolve)
		if err != nil {
			p.logger.Warn("Cache key failed", zap.String("document", doc.ID), zap.Error(err))
		} else if cached, ok := cache.GetResult(p.cache, k); ok {
			p.logger.Debug("Cache hit", zap.String("document", doc.ID))
			return cached, true, nil
		}
		key = k
	}

	result, err := p.run(ctx, doc)
	if err != nil {
		return nil, false, err
	}

	if p.cache != nil && key != "" {
		if err := cache.SetResult(p.cache, key, result); err != nil {
			// Don't fail the resolution, just warn
			p.logger.Warn("Cache write failed", zap.String("document", doc.ID), zap.Error(err))
		}
	}
	return result, false, nil
}

// run executes every stage on a private copy of the document
func (p *Pipeline) run(ctx context.Context, doc *model.Document) (*model.Result, error) {
	work := doc.Clone()
	store := spanstore.New(work)
	logger := p.logger.With(zap.String("document", work.ID))

	// 1. Filter candidate mentions
	filtered := p.filter.Apply(store, work.Mentions)

	// 2. Order mentions by dependency traversal
	ordered := p.orderer.Order(store, filtered.Mentions)

	byID := make(map[int]*model.Mention, len(filtered.Mentions))
	for _, m := range filtered.Mentions {
		byID[m.ID] = m
	}

	// 3. Extract same-sentence relations
	if err := p.relations.Extract(ctx, store, ordered.Sentences, byID); err != nil {
		return nil, fmt.Errorf("extract relations: %w", err)
	}

	// 4. Run the sieves
	rc := sieve.NewContext(store, filtered.Mentions, ordered.Sentences, p.config.Resolve, logger)
	report, err := p.engine.Run(rc)
	if err != nil {
		logger.Error("Resolution aborted", zap.Error(err))
		return nil, fmt.Errorf("run sieves: %w", err)
	}

	// 5. Emit chains
	chains := p.emitter.Emit(rc.Clusters, byID)

	stats := model.Stats{
		Sentences:      len(work.Sentences),
		InputMentions:  len(doc.Mentions),
		Surviving:      len(filtered.Mentions),
		Dropped:        filtered.Dropped,
		Shrunk:         filtered.Shrunk,
		MissingRoot:    len(ordered.MissingRoot),
		MissingHead:    len(ordered.MissingHead),
		SharedHeadTies: ordered.HeadTies,
		Merges:         report.Merges,
		WeDetached:     report.WeDetached,
	}

	result := &model.Result{
		DocumentID:  work.ID,
		RunID:       uuid.NewString(),
		ResolvedAt:  time.Now().UTC(),
		Chains:      chains,
		Trace:       rc.Clusters.Trace(),
		Consumed:    filtered.Consumed,
		Stats:       stats,
		Diagnostics: p.scorer.Calculate(stats),
	}

	logger.Info("Resolved document",
		zap.Int("mentions", stats.Surviving),
		zap.Int("chains", len(chains)),
		zap.Int("missing_root", stats.MissingRoot),
		zap.Int("missing_head", stats.MissingHead))

	return result, nil
}

// RenderReport renders the result to the specified outputs
func (p *Pipeline) RenderReport(result *model.Result, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(result)

	return nil
}
