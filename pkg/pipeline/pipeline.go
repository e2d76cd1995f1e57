// Package pipeline runs the read → layout → render sequence shared by the
// CLI and the HTTP service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: decode a JSON graph record
//  2. Layout: run the layout engine on it
//  3. Render: produce artifacts (JSON, SVG, DOT, PDF, PNG)
//
// Layout results and rendered artifacts are cached by content hash, so a
// record laid out twice with the same options is only computed once.
//
// # Usage
//
//	runner := pipeline.NewRunner(engine, cache, nil, logger)
//	result, err := runner.Execute(ctx, record, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout/constraint"
)

// Format constants for output formats.
const (
	// FormatJSON is the laid out graph record.
	FormatJSON = "json"
	// FormatSVG is drawn by the built-in SVG renderer.
	FormatSVG = "svg"
	// FormatDOT is Graphviz source with pinned positions.
	FormatDOT = "dot"
	// FormatGraphviz is SVG drawn by Graphviz from the DOT source.
	FormatGraphviz = "graphviz"
	// FormatPDF and FormatPNG are converted from FormatSVG with rsvg-convert.
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatSVG:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
	FormatPDF:      true,
	FormatPNG:      true,
}

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		names := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			names = append(names, f)
		}
		slices.Sort(names)
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	// Formats lists the artifacts to render. Empty means FormatJSON.
	Formats []string `json:"formats,omitempty"`

	// Labels draws node labels in SVG output.
	Labels bool `json:"labels,omitempty"`

	// Detailed adds positions and properties to DOT node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Scale is the PNG scale factor; zero means DefaultScale.
	Scale float64 `json:"scale,omitempty"`

	// Refresh skips cache reads but still writes the fresh results.
	Refresh bool `json:"refresh,omitempty"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// Validate sets defaults and checks the formats.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Scale < 0 {
		return fmt.Errorf("invalid scale: %g (must be positive)", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// Outcome is a laid out graph together with the violations found on it.
// It is the unit stored in the layout cache.
type Outcome struct {
	Graph      *graph.Graph           `json:"graph"`
	Violations []constraint.Violation `json:"violations"`
}

// MarshalOutcome encodes o as JSON.
func MarshalOutcome(o *Outcome) ([]byte, error) {
	return json.Marshal(o)
}

// UnmarshalOutcome decodes an outcome written by MarshalOutcome.
func UnmarshalOutcome(data []byte) (*Outcome, error) {
	var o Outcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o.Graph == nil {
		return nil, fmt.Errorf("outcome has no graph")
	}
	if o.Violations == nil {
		o.Violations = []constraint.Violation{}
	}
	return &o, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Outcome

	// GraphHash is the content hash of the input record.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}
