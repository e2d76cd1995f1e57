package layout

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/force"
	"github.com/matzehuels/strata/pkg/layout/layered"
	"github.com/matzehuels/strata/pkg/layout/simple"
)

// Algorithm lays out the direct children of one scope.
type Algorithm interface {
	Name() string
	LayoutScope(ctx context.Context, s *graph.Scope) error
}

// Algorithm names. The set is closed.
const (
	Layered = layered.Name
	Force   = force.Name
	Stress  = "stress"
	MrTree  = "mrtree"
	Radial  = "radial"
	Disco   = "disco"
	Box     = simple.NameBox
	Random  = simple.NameRandom
	Fixed   = simple.NameFixed
)

// Names lists every recognized algorithm name.
var Names = []string{Layered, Force, Stress, MrTree, Radial, Disco, Box, Random, Fixed}

// Normalize lower-cases name and strips an "org.eclipse.elk." or "elk."
// prefix.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "org.eclipse.elk.")
	return strings.TrimPrefix(n, "elk.")
}

// IsKnown reports whether name is one of Names.
func IsKnown(name string) bool { return slices.Contains(Names, Normalize(name)) }

// Factory creates a fresh algorithm instance for one layout run.
type Factory func() Algorithm

// Registry maps algorithm names to their implementation. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every implemented algorithm.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister(Layered, func() Algorithm { return layered.New() })
	r.mustRegister(Force, func() Algorithm { return force.New() })
	r.mustRegister(Box, func() Algorithm { return simple.Box{} })
	r.mustRegister(Random, func() Algorithm { return simple.Random{} })
	r.mustRegister(Fixed, func() Algorithm { return simple.Fixed{} })
	return r
}

// Register binds name to f, replacing any earlier binding. Only names from
// the closed set may be registered.
func (r *Registry) Register(name string, f Factory) error {
	n := Normalize(name)
	if !IsKnown(n) {
		return errors.New(errors.ErrCodeUnknownAlgorithm, "unknown layout algorithm %q", name)
	}
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil factory for algorithm %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[n] = f
	return nil
}

func (r *Registry) mustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns a new instance of the named algorithm. An unrecognized
// name is UNKNOWN_ALGORITHM; a recognized name without an implementation is
// UNSUPPORTED.
func (r *Registry) Lookup(name string) (Algorithm, error) {
	n := Normalize(name)
	if !IsKnown(n) {
		return nil, errors.New(errors.ErrCodeUnknownAlgorithm,
			"unknown layout algorithm %q (must be one of: %s)", name, strings.Join(Names, ", "))
	}
	r.mu.RLock()
	f, ok := r.factories[n]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "layout algorithm %q is not supported", n)
	}
	return f(), nil
}

// Implemented returns the registered names in sorted order.
func (r *Registry) Implemented() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
