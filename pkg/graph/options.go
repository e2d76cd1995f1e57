package graph

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/geometry"
)

// Recognized layout option keys, in their canonical external spelling.
const (
	KeyAlgorithm            = "algorithm"
	KeyDirection            = "direction"
	KeySpacingNodeNode      = "spacing.nodeNode"
	KeySpacingEdgeNode      = "spacing.edgeNode"
	KeySpacingEdgeEdge      = "spacing.edgeEdge"
	KeySpacingNodeLabel     = "spacing.nodeLabel"
	KeySpacingLayer         = "layered.spacing.nodeNodeBetweenLayers"
	KeyEdgeRouting          = "edgeRouting"
	KeySplineCurvature      = "spline.curvature"
	KeySplineSegments       = "spline.segments"
	KeyHierarchical         = "hierarchical"
	KeyPadding              = "padding"
	KeyPortConstraints      = "elk.portConstraints"
	KeyPortSideAssignment   = "elk.portSideAssignment"
	KeyPortOrdering         = "elk.portOrdering"
	KeySelfLoopSide         = "elk.selfLoopSide"
	KeySelfLoopOffset       = "elk.selfLoopOffset"
	KeySelfLoopRouting      = "elk.selfLoopRouting"
	KeyCrossingMinimization = "crossingMinimization.strategy"
	KeyRandomSeed           = "randomSeed"
	KeyForceIterations      = "force.iterations"
)

// Built-in defaults.
const (
	DefaultNodeSpacing     = 20.0
	DefaultLayerSpacing    = 60.0
	DefaultEdgeNodeSpacing = 10.0
	DefaultEdgeEdgeSpacing = 10.0
	DefaultLabelSpacing    = 5.0
	DefaultSplineCurvature = 0.5
	DefaultSplineSegments  = 12
	DefaultPadding         = 12.0
	DefaultSelfLoopOffset  = 10.0
)

// LayoutOptions holds the well-known options as typed fields and everything
// else in a generic property bag. Lookups follow the precedence typed field,
// then bag, then the caller's default.
//
// A nil *LayoutOptions is valid for reading and behaves as empty.
type LayoutOptions struct {
	Algorithm        string
	Direction        Direction
	NodeSpacing      *float64
	EdgeNodeSpacing  *float64
	EdgeEdgeSpacing  *float64
	NodeLabelSpacing *float64
	LayerSpacing     *float64
	EdgeRouting      EdgeRouting
	SplineCurvature  *float64
	SplineSegments   *int
	Hierarchical     *bool

	// Properties carries every key without a typed field, verbatim.
	Properties Properties
}

// NewLayoutOptions builds options from a flat key/value record, routing
// recognized keys to typed fields. Keys may carry an "elk." prefix.
// Malformed values for typed keys and a malformed padding are rejected.
func NewLayoutOptions(m map[string]any) (*LayoutOptions, error) {
	o := &LayoutOptions{}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := o.Set(k, m[k]); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Set assigns a single option. Typed keys are parsed and validated here, so
// a malformed value fails at the point of assignment.
func (o *LayoutOptions) Set(key string, v any) error {
	var err error
	switch canonicalKey(key) {
	case KeyAlgorithm:
		o.Algorithm = fmt.Sprint(v)
	case KeyDirection:
		o.Direction, err = ParseDirection(fmt.Sprint(v))
	case KeySpacingNodeNode:
		o.NodeSpacing, err = floatPtr(key, v)
	case KeySpacingEdgeNode:
		o.EdgeNodeSpacing, err = floatPtr(key, v)
	case KeySpacingEdgeEdge:
		o.EdgeEdgeSpacing, err = floatPtr(key, v)
	case KeySpacingNodeLabel:
		o.NodeLabelSpacing, err = floatPtr(key, v)
	case KeySpacingLayer:
		o.LayerSpacing, err = floatPtr(key, v)
	case KeyEdgeRouting:
		o.EdgeRouting, err = ParseEdgeRouting(fmt.Sprint(v))
	case KeySplineCurvature:
		o.SplineCurvature, err = floatPtr(key, v)
	case KeySplineSegments:
		var f *float64
		if f, err = floatPtr(key, v); err == nil {
			n := int(*f)
			o.SplineSegments = &n
		}
	case KeyHierarchical:
		b, ok := toBool(v)
		if !ok {
			return errors.New(errors.ErrCodeInvalidOption, "option %s: expected boolean, got %v", key, v)
		}
		o.Hierarchical = &b
	case KeyPadding:
		if _, err = ParsePadding(v); err == nil {
			o.bag()[KeyPadding] = v
		}
	default:
		o.bag()[key] = v
	}
	return err
}

func (o *LayoutOptions) bag() Properties {
	if o.Properties == nil {
		o.Properties = Properties{}
	}
	return o.Properties
}

// typed returns the typed field value for key, if that field is set.
func (o *LayoutOptions) typed(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	switch canonicalKey(key) {
	case KeyAlgorithm:
		return o.Algorithm, o.Algorithm != ""
	case KeyDirection:
		return o.Direction, o.Direction != DirectionUndefined
	case KeySpacingNodeNode:
		return deref(o.NodeSpacing)
	case KeySpacingEdgeNode:
		return deref(o.EdgeNodeSpacing)
	case KeySpacingEdgeEdge:
		return deref(o.EdgeEdgeSpacing)
	case KeySpacingNodeLabel:
		return deref(o.NodeLabelSpacing)
	case KeySpacingLayer:
		return deref(o.LayerSpacing)
	case KeyEdgeRouting:
		return o.EdgeRouting, o.EdgeRouting != EdgeRoutingUndefined
	case KeySplineCurvature:
		return deref(o.SplineCurvature)
	case KeySplineSegments:
		return deref(o.SplineSegments)
	case KeyHierarchical:
		return deref(o.Hierarchical)
	}
	return nil, false
}

// Get returns the value for key: typed field first, then the bag.
func (o *LayoutOptions) Get(key string) (any, bool) {
	if v, ok := o.typed(key); ok {
		return v, true
	}
	if o == nil {
		return nil, false
	}
	if v, ok := o.Properties[key]; ok {
		return v, true
	}
	if alt := altKey(key); alt != "" {
		v, ok := o.Properties[alt]
		return v, ok
	}
	return nil, false
}

// Has reports whether key is set anywhere.
func (o *LayoutOptions) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Float returns key as a float64, or def when unset or not numeric.
func (o *LayoutOptions) Float(key string, def float64) float64 {
	if v, ok := o.Get(key); ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return def
}

// Int returns key as an int, or def when unset or not numeric.
func (o *LayoutOptions) Int(key string, def int) int {
	if v, ok := o.Get(key); ok {
		if f, ok := toFloat(v); ok {
			return int(f)
		}
	}
	return def
}

// Bool returns key as a bool, or def when unset or not boolean.
func (o *LayoutOptions) Bool(key string, def bool) bool {
	if v, ok := o.Get(key); ok {
		if b, ok := toBool(v); ok {
			return b
		}
	}
	return def
}

// Text returns key as a string, or def when unset.
func (o *LayoutOptions) Text(key string, def string) string {
	if v, ok := o.Get(key); ok {
		switch s := v.(type) {
		case string:
			return s
		case fmt.Stringer:
			return s.String()
		default:
			return fmt.Sprint(v)
		}
	}
	return def
}

// FlowDirection returns the direction, defaulting to DOWN.
func (o *LayoutOptions) FlowDirection() Direction {
	if v, ok := o.typed(KeyDirection); ok {
		return v.(Direction)
	}
	if s := o.Text(KeyDirection, ""); s != "" {
		if d, err := ParseDirection(s); err == nil && d != DirectionUndefined {
			return d
		}
	}
	return DirectionDown
}

// Routing returns the edge routing, defaulting to def.
func (o *LayoutOptions) Routing(def EdgeRouting) EdgeRouting {
	if v, ok := o.typed(KeyEdgeRouting); ok {
		return v.(EdgeRouting)
	}
	if s := o.Text(KeyEdgeRouting, ""); s != "" {
		if r, err := ParseEdgeRouting(s); err == nil && r != EdgeRoutingUndefined {
			return r
		}
	}
	return def
}

// AlgorithmName returns the algorithm name, or def when unset.
func (o *LayoutOptions) AlgorithmName(def string) string {
	return o.Text(KeyAlgorithm, def)
}

// Padding parses the padding option. Unset padding is the uniform default.
func (o *LayoutOptions) Padding() (geometry.Insets, error) {
	v, ok := o.Get(KeyPadding)
	if !ok {
		return geometry.UniformInsets(DefaultPadding), nil
	}
	return ParsePadding(v)
}

// Inherit returns a copy of o where every unset option falls back to parent.
// Padding describes a single container and is never inherited.
func (o *LayoutOptions) Inherit(parent *LayoutOptions) *LayoutOptions {
	out := o.Clone()
	if parent == nil {
		return out
	}
	if out.Algorithm == "" {
		out.Algorithm = parent.Algorithm
	}
	if out.Direction == DirectionUndefined {
		out.Direction = parent.Direction
	}
	if out.EdgeRouting == EdgeRoutingUndefined {
		out.EdgeRouting = parent.EdgeRouting
	}
	inheritPtr(&out.NodeSpacing, parent.NodeSpacing)
	inheritPtr(&out.EdgeNodeSpacing, parent.EdgeNodeSpacing)
	inheritPtr(&out.EdgeEdgeSpacing, parent.EdgeEdgeSpacing)
	inheritPtr(&out.NodeLabelSpacing, parent.NodeLabelSpacing)
	inheritPtr(&out.LayerSpacing, parent.LayerSpacing)
	inheritPtr(&out.SplineCurvature, parent.SplineCurvature)
	inheritPtr(&out.SplineSegments, parent.SplineSegments)
	inheritPtr(&out.Hierarchical, parent.Hierarchical)
	for k, v := range parent.Properties {
		if k == KeyPadding {
			continue
		}
		if _, ok := out.Properties[k]; !ok {
			out.bag()[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of o. Cloning nil yields empty options.
func (o *LayoutOptions) Clone() *LayoutOptions {
	if o == nil {
		return &LayoutOptions{}
	}
	c := *o
	c.NodeSpacing = clonePtr(o.NodeSpacing)
	c.EdgeNodeSpacing = clonePtr(o.EdgeNodeSpacing)
	c.EdgeEdgeSpacing = clonePtr(o.EdgeEdgeSpacing)
	c.NodeLabelSpacing = clonePtr(o.NodeLabelSpacing)
	c.LayerSpacing = clonePtr(o.LayerSpacing)
	c.SplineCurvature = clonePtr(o.SplineCurvature)
	c.SplineSegments = clonePtr(o.SplineSegments)
	c.Hierarchical = clonePtr(o.Hierarchical)
	c.Properties = maps.Clone(o.Properties)
	return &c
}

// Map flattens o back into the external key/value record.
func (o *LayoutOptions) Map() map[string]any {
	m := make(map[string]any)
	if o == nil {
		return m
	}
	for k, v := range o.Properties {
		m[k] = v
	}
	for _, k := range typedKeys {
		if v, ok := o.typed(k); ok {
			if s, isStringer := v.(fmt.Stringer); isStringer {
				v = s.String()
			}
			m[k] = v
		}
	}
	return m
}

// IsEmpty reports whether no option is set.
func (o *LayoutOptions) IsEmpty() bool { return len(o.Map()) == 0 }

func (o *LayoutOptions) MarshalJSON() ([]byte, error) { return json.Marshal(o.Map()) }

func (o *LayoutOptions) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	parsed, err := NewLayoutOptions(m)
	if err != nil {
		return err
	}
	*o = *parsed
	return nil
}

var typedKeys = []string{
	KeyAlgorithm, KeyDirection, KeySpacingNodeNode, KeySpacingEdgeNode,
	KeySpacingEdgeEdge, KeySpacingNodeLabel, KeySpacingLayer, KeyEdgeRouting,
	KeySplineCurvature, KeySplineSegments, KeyHierarchical,
}

// canonicalKey strips an "elk." prefix from keys that have a typed field.
func canonicalKey(key string) string {
	if rest, ok := strings.CutPrefix(key, "elk."); ok && slices.Contains(typedKeys, rest) {
		return rest
	}
	if rest, ok := strings.CutPrefix(key, "elk."); ok && rest == KeyPadding {
		return KeyPadding
	}
	return key
}

// altKey maps between the prefixed and unprefixed spelling of bag keys.
func altKey(key string) string {
	if rest, ok := strings.CutPrefix(key, "elk."); ok {
		return rest
	}
	if key == KeyPadding {
		return "elk." + KeyPadding
	}
	return ""
}

// ParsePadding accepts a single number (uniform padding) or a map with
// optional left/top/right/bottom keys, each defaulting to DefaultPadding.
// ELK's "[top=..,left=..,bottom=..,right=..]" string form is accepted too.
func ParsePadding(v any) (geometry.Insets, error) {
	if v == nil {
		return geometry.UniformInsets(DefaultPadding), nil
	}
	if f, ok := toFloat(v); ok {
		return geometry.UniformInsets(f), nil
	}
	var m map[string]any
	switch t := v.(type) {
	case map[string]any:
		m = t
	case Properties:
		m = t
	case map[string]float64:
		m = make(map[string]any, len(t))
		for k, f := range t {
			m[k] = f
		}
	case geometry.Insets:
		return t, nil
	case string:
		parsed, err := parsePaddingString(t)
		if err != nil {
			return geometry.Insets{}, err
		}
		m = parsed
	default:
		return geometry.Insets{}, errors.New(errors.ErrCodeInvalidPadding, "padding must be a number or a side map, got %T", v)
	}

	in := geometry.UniformInsets(DefaultPadding)
	for k, raw := range m {
		f, ok := toFloat(raw)
		if !ok {
			return geometry.Insets{}, errors.New(errors.ErrCodeInvalidPadding, "padding %s: expected number, got %v", k, raw)
		}
		switch strings.ToLower(k) {
		case "left":
			in.Left = f
		case "top":
			in.Top = f
		case "right":
			in.Right = f
		case "bottom":
			in.Bottom = f
		default:
			return geometry.Insets{}, errors.New(errors.ErrCodeInvalidPadding, "unknown padding side %q", k)
		}
	}
	return in, nil
}

func parsePaddingString(s string) (map[string]any, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
	m := make(map[string]any)
	for part := range strings.SplitSeq(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidPadding, "malformed padding %q", s)
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m, nil
}

func floatPtr(key string, v any) (*float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOption, "option %s: expected number, got %v", key, v)
	}
	return &f, nil
}

func deref[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func inheritPtr[T any](dst **T, parent *T) {
	if *dst == nil && parent != nil {
		*dst = clonePtr(parent)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(b))
		return p, err == nil
	}
	return false, false
}
