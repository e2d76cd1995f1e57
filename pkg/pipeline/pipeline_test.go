package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/cache"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/observability"
)

const record = `{
	"id": "root",
	"children": [
		{"id": "a", "width": 40, "height": 20},
		{"id": "b", "width": 40, "height": 20},
		{"id": "c", "width": 40, "height": 20, "constraints": {"relativeTo": "missing"}}
	],
	"edges": [{"id": "ab", "sources": ["a"], "targets": ["b"]}]
}`

// memCache is an in-memory Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type countingHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses map[string]int
}

func (h *countingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}

func (h *countingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[keyType]++
}

func quietRunner(c cache.Cache) *Runner {
	logger := log.New(io.Discard)
	return NewRunner(layout.NewEngine(logger), c, nil, logger)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"graphviz", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}

	opts = Options{Scale: -1}
	if err := opts.Validate(); err == nil {
		t.Error("Negative scale should fail")
	}
}

func TestOutcomeRoundTrip(t *testing.T) {
	if _, err := UnmarshalOutcome([]byte(`{"violations": []}`)); err == nil {
		t.Error("UnmarshalOutcome() without graph should fail")
	}
	o, err := UnmarshalOutcome([]byte(`{"graph": {"id": "g"}}`))
	if err != nil {
		t.Fatalf("UnmarshalOutcome() error = %v", err)
	}
	if o.Violations == nil {
		t.Error("UnmarshalOutcome() left Violations nil")
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), []byte(record), Options{
		Formats: []string{FormatJSON, FormatSVG, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 1 {
		t.Errorf("Stats = %+v, want 3 nodes and 1 edge", res.Stats)
	}
	if len(res.Violations) != 1 || res.Violations[0].NodeID != "c" {
		t.Errorf("Violations = %v, want one for c", res.Violations)
	}
	if res.GraphHash != cache.Hash([]byte(record)) {
		t.Error("GraphHash is not the record hash")
	}

	g, err := graph.UnmarshalGraph(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if b := g.Children[1]; b.Y <= g.Children[0].Y {
		t.Errorf("b.Y = %g, want below a", b.Y)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact does not start with <svg")
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"a" -> "b";`) {
		t.Errorf("dot artifact missing edge:\n%s", res.Artifacts[FormatDOT])
	}
}

func TestExecuteErrors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, []byte(record), Options{Formats: []string{"gif"}}); err == nil {
		t.Error("Execute() with invalid format succeeded")
	}
	if _, err := r.Execute(ctx, []byte(`{"children": [`), Options{}); err == nil {
		t.Error("Execute() with malformed record succeeded")
	}
	bad := `{"layoutOptions": {"elk.algorithm": "dagre"}, "children": [{"id": "a"}]}`
	if _, err := r.Execute(ctx, []byte(bad), Options{}); err == nil {
		t.Error("Execute() with unknown algorithm succeeded")
	}
}

func TestRunnerCaches(t *testing.T) {
	hooks := &countingHooks{hits: map[string]int{}, misses: map[string]int{}}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, []byte(record), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if c.sets != 2 {
		t.Errorf("cache writes = %d, want 2 (layout, svg)", c.sets)
	}

	second, err := r.Execute(ctx, []byte(record), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}
	if len(second.Violations) != 1 {
		t.Errorf("cached Violations = %v, want 1", second.Violations)
	}
	if hooks.hits["layout"] != 1 || hooks.misses["layout"] != 1 {
		t.Errorf("layout hooks hits=%d misses=%d, want 1 and 1", hooks.hits["layout"], hooks.misses["layout"])
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, []byte(record), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh run hit the layout cache")
	}
}

func TestRunnerKeyCoversDefaults(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()

	if _, err := r.Layout(ctx, []byte(record)); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	r.Engine.Defaults = &graph.LayoutOptions{}
	if err := r.Engine.Defaults.Set(graph.KeyDirection, "RIGHT"); err != nil {
		t.Fatal(err)
	}
	_, hit, err := r.LayoutWithCacheInfo(ctx, []byte(record), false)
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("changed defaults reused the cached layout")
	}
}

func TestRunnerClose(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
