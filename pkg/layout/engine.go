package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/constraint"
	"github.com/matzehuels/strata/pkg/layout/hierarchy"
	"github.com/matzehuels/strata/pkg/layout/layered"
	"github.com/matzehuels/strata/pkg/layout/ports"
	"github.com/matzehuels/strata/pkg/observability"
)

// Engine lays out graphs. It holds no per-run state, so one Engine may be
// shared by concurrent callers as long as each passes its own graph.
type Engine struct {
	Logger   *log.Logger
	Registry *Registry

	// Defaults sit beneath the graph's own options.
	Defaults *graph.LayoutOptions

	// MaxDepth bounds nesting; zero means hierarchy.DefaultMaxDepth.
	MaxDepth int
}

// NewEngine creates an engine with every implemented algorithm registered.
// If logger is nil, log.Default() is used.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Logger:   logger,
		Registry: DefaultRegistry(),
	}
}

// Report describes a finished layout run.
type Report struct {
	Graph     *graph.Graph
	Algorithm string
	Nodes     int
	Levels    int
	Reversed  int
	Duration  time.Duration

	// Violations lists the constraints that do not hold after layout. It is
	// never nil.
	Violations []constraint.Violation
}

// Layout lays out g in place with the package defaults and returns it.
// opts, which may be nil, sit beneath the graph's own options.
func Layout(ctx context.Context, g *graph.Graph, opts *graph.LayoutOptions) (*graph.Graph, error) {
	e := NewEngine(nil)
	e.Defaults = opts
	return e.Layout(ctx, g)
}

// Layout lays out g in place and returns it. Constraint violations are
// logged as warnings.
func (e *Engine) Layout(ctx context.Context, g *graph.Graph) (*graph.Graph, error) {
	r, err := e.LayoutWithReport(ctx, g)
	if err != nil {
		return nil, err
	}
	return r.Graph, nil
}

// LayoutWithReport lays out g in place and reports what happened,
// including the constraint violations found afterwards.
func (e *Engine) LayoutWithReport(ctx context.Context, g *graph.Graph) (report *Report, err error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	registry := e.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	if n := graph.EnsureIDs(g); n > 0 {
		logger.Debug("assigned ids", "count", n)
	}
	ix, err := graph.NewIndex(g)
	if err != nil {
		return nil, err
	}

	name := Normalize(g.LayoutOptions.Inherit(e.Defaults).AlgorithmName(Layered))
	root, err := registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	start := time.Now()
	hooks.OnLayoutStart(ctx, name, ix.Len())
	defer func() {
		hooks.OnLayoutComplete(ctx, name, time.Since(start), err)
	}()

	report = &Report{Graph: g, Algorithm: name, Nodes: ix.Len()}
	instrument := func(a Algorithm) Algorithm {
		if l, ok := a.(*layered.Algorithm); ok {
			l.Observe = func(s layered.Stats) {
				report.Reversed += s.Reversed
				logger.Debug("layered scope",
					"scope", s.Scope,
					"nodes", s.Nodes,
					"edges", s.Edges,
					"reversed", s.Reversed,
					"layers", s.Layers)
			}
		}
		return a
	}

	constrained := constraint.HasConstraints(g)
	if constrained {
		constraint.Apply(g)
		logger.Debug("applied constraints")
	}

	p := &hierarchy.Processor{
		Algorithm: instrument(root),
		Select: func(name string) (hierarchy.Algorithm, error) {
			a, err := registry.Lookup(name)
			if err != nil {
				return nil, err
			}
			return instrument(a), nil
		},
		Defaults: e.Defaults,
		MaxDepth: e.MaxDepth,
		Observe: func(l hierarchy.Level) {
			report.Levels++
			hooks.OnLevel(ctx, l.Algorithm, l.Depth, l.Nodes)
			logger.Debug("laid out level",
				"scope", l.Scope,
				"algorithm", l.Algorithm,
				"depth", l.Depth,
				"nodes", l.Nodes)
		},
	}
	if err := p.Layout(ctx, g); err != nil {
		return nil, err
	}

	// Algorithms honour only fixed and layer tags; align and relative
	// constraints are enforced again on the final coordinates.
	if constrained {
		constraint.Align(g)
		constraint.Relate(g)
	}
	ports.Process(g, e.Defaults)

	report.Violations = constraint.Validate(g)
	for _, v := range report.Violations {
		hooks.OnViolation(ctx, string(v.Kind))
		logger.Warn("constraint violation", "kind", v.Kind, "node", v.NodeID, "msg", v.Message)
	}
	report.Duration = time.Since(start)

	logger.Debug("layout complete",
		"algorithm", name,
		"nodes", report.Nodes,
		"levels", report.Levels,
		"reversed", report.Reversed,
		"duration", report.Duration)
	return report, nil
}
