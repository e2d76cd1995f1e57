// Package config loads engine configuration from TOML or YAML files.
//
// A file only needs the keys it changes; everything else keeps the value
// from [Default]:
//
//	[layout]
//	algorithm = "layered"
//	direction = "RIGHT"
//	layer_spacing = 80
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//	prefix = "strata:prod:"
//
// The layout section becomes the engine's default options. Options set on a
// graph or container still take precedence over it.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/layout/hierarchy"
)

// Defaults for the non-layout sections.
const (
	DefaultServerAddr = ":8080"
	DefaultCacheTTL   = 7 * 24 * time.Hour
)

// Config is the complete engine configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// LayoutConfig holds the default layout options.
type LayoutConfig struct {
	Algorithm       string  `toml:"algorithm" yaml:"algorithm" validate:"required,algorithm"`
	Direction       string  `toml:"direction" yaml:"direction" validate:"required,oneof=DOWN UP RIGHT LEFT"`
	NodeSpacing     float64 `toml:"node_spacing" yaml:"node_spacing" validate:"gte=0"`
	LayerSpacing    float64 `toml:"layer_spacing" yaml:"layer_spacing" validate:"gte=0"`
	EdgeRouting     string  `toml:"edge_routing" yaml:"edge_routing" validate:"required,oneof=POLYLINE ORTHOGONAL SPLINES"`
	SplineCurvature float64 `toml:"spline_curvature" yaml:"spline_curvature" validate:"gte=0,lte=1"`
	SplineSegments  int     `toml:"spline_segments" yaml:"spline_segments" validate:"gte=2,lte=1000"`
	Padding         float64 `toml:"padding" yaml:"padding" validate:"gte=0"`
	Hierarchical    bool    `toml:"hierarchical" yaml:"hierarchical"`
	MaxDepth        int     `toml:"max_depth" yaml:"max_depth" validate:"gte=1,lte=100000"`
}

// CacheConfig selects the layout cache backend. RedisAddr wins over Dir;
// with neither set the CLI uses its per-user cache directory. Prefix
// namespaces every key, for services sharing one Redis.
type CacheConfig struct {
	Dir       string        `toml:"dir" yaml:"dir"`
	Prefix    string        `toml:"prefix" yaml:"prefix" validate:"omitempty,max=64,printascii"`
	RedisAddr string        `toml:"redis_addr" yaml:"redis_addr" validate:"omitempty,hostname_port"`
	TTL       time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Algorithm:       layout.Layered,
			Direction:       graph.DirectionDown.String(),
			NodeSpacing:     graph.DefaultNodeSpacing,
			LayerSpacing:    graph.DefaultLayerSpacing,
			EdgeRouting:     graph.EdgeRoutingOrthogonal.String(),
			SplineCurvature: graph.DefaultSplineCurvature,
			SplineSegments:  graph.DefaultSplineSegments,
			Padding:         graph.DefaultPadding,
			MaxDepth:        hierarchy.DefaultMaxDepth,
		},
		Cache: CacheConfig{
			TTL: DefaultCacheTTL,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Load reads the file at path over the defaults. The format follows the
// extension: .toml, .yaml or .yml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := cfg.decode(data, filepath.Ext(path)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte, ext string) error {
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(c)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(c); err == io.EOF {
			err = nil // empty document
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unsupported config format %q (must be .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return nil
}

// Validate normalizes enumerated values and checks every field.
func (c *Config) Validate() error {
	c.Layout.Algorithm = layout.Normalize(c.Layout.Algorithm)
	c.Layout.Direction = strings.ToUpper(strings.TrimSpace(c.Layout.Direction))
	c.Layout.EdgeRouting = strings.ToUpper(strings.TrimSpace(c.Layout.EdgeRouting))
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// LayoutOptions converts the layout section into engine defaults.
func (c *Config) LayoutOptions() (*graph.LayoutOptions, error) {
	l := c.Layout
	return graph.NewLayoutOptions(map[string]any{
		graph.KeyAlgorithm:       l.Algorithm,
		graph.KeyDirection:       l.Direction,
		graph.KeySpacingNodeNode: l.NodeSpacing,
		graph.KeySpacingLayer:    l.LayerSpacing,
		graph.KeyEdgeRouting:     l.EdgeRouting,
		graph.KeySplineCurvature: l.SplineCurvature,
		graph.KeySplineSegments:  l.SplineSegments,
		graph.KeyPadding:         l.Padding,
		graph.KeyHierarchical:    l.Hierarchical,
	})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		return layout.IsKnown(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// formatValidationError reports the first failed field by its file key.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}

	e := validationErrs[0]
	field := e.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	var msg string
	switch e.Tag() {
	case "required":
		msg = "field is required"
	case "gte":
		msg = "must be at least " + e.Param()
	case "lte":
		msg = "must not exceed " + e.Param()
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "algorithm":
		msg = fmt.Sprintf("unknown algorithm %q (must be one of: %s)", e.Value(), strings.Join(layout.Names, ", "))
	case "hostname_port":
		msg = "must be host:port"
	case "max":
		msg = "must be at most " + e.Param() + " characters"
	case "printascii":
		msg = "must be printable ASCII"
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: %s", field, msg)
}
