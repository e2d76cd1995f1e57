package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/buildinfo"
	"github.com/matzehuels/strata/pkg/cache"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout = "layout"
	keyTypeRender = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its engine, cache and logger, so
// multiple goroutines can safely use the same Runner.
type Runner struct {
	Engine *layout.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache expiry when positive.
	TTL time.Duration
}

// NewRunner creates a runner.
// If engine is nil, layout.NewEngine(logger) is used.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(engine *layout.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if engine == nil {
		engine = layout.NewEngine(logger)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Engine: engine,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete read → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, record []byte, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{GraphHash: cache.Hash(record)}

	// Stage 1+2: Read and lay out
	layoutStart := time.Now()
	outcome, layoutHit, err := r.LayoutWithCacheInfo(ctx, record, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Outcome = *outcome
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(graph.Nodes(outcome.Graph))
	result.Stats.EdgeCount = len(graph.AllEdges(outcome.Graph))
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"violations", len(outcome.Violations),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, outcome.Graph, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo decodes and lays out a graph record, consulting the
// cache first unless refresh is set. The cache key covers the record bytes,
// the engine defaults and the build version.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, record []byte, refresh bool) (*Outcome, bool, error) {
	hooks := observability.Cache()
	cacheKey := r.Keyer.LayoutKey(cache.Hash(record), r.layoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			r.Logger.Debug("cache read failed", "key", cacheKey, "err", err)
		}
		if err == nil && hit {
			if cached, err := UnmarshalOutcome(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	g, err := graph.UnmarshalGraph(record)
	if err != nil {
		return nil, false, fmt.Errorf("read: %w", err)
	}
	report, err := r.Engine.LayoutWithReport(ctx, g)
	if err != nil {
		return nil, false, fmt.Errorf("layout: %w", err)
	}
	outcome := &Outcome{Graph: report.Graph, Violations: report.Violations}

	data, err := MarshalOutcome(outcome)
	if err != nil {
		return nil, false, fmt.Errorf("encode layout: %w", err)
	}
	r.store(ctx, keyTypeLayout, cacheKey, data, cache.TTLLayout)

	// Hand out the decoded form so fresh and cached results render alike.
	if decoded, err := UnmarshalOutcome(data); err == nil {
		outcome = decoded
	}
	return outcome, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, record []byte) (*Outcome, error) {
	o, _, err := r.LayoutWithCacheInfo(ctx, record, false)
	return o, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	layoutData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.RenderKey(layoutHash, opts.renderKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeRender)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeRender)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	partial := opts
	partial.Formats = missing
	rendered, err := Render(ctx, g, partial)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.RenderKey(layoutHash, opts.renderKeyOpts(format))
		r.store(ctx, keyTypeRender, key, data, cache.TTLRender)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) layoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		MaxDepth: r.Engine.MaxDepth,
		Version:  buildinfo.Version,
	}
	if r.Engine.Defaults != nil {
		opts.Options = r.Engine.Defaults.Map()
	}
	return opts
}

func (o Options) renderKeyOpts(format string) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Labels = o.Labels
	case FormatPNG:
		k.Labels = o.Labels
		k.Scale = o.Scale
	case FormatDOT, FormatGraphviz:
		k.Detailed = o.Detailed
	}
	return k
}
