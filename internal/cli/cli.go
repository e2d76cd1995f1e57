package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/pkg/buildinfo"
	"github.com/matzehuels/strata/pkg/cache"
	"github.com/matzehuels/strata/pkg/config"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "strata"

// configEnv names a config file used when --config is not given.
const configEnv = "STRATA_CONFIG"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	overrides  layoutFlags
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Strata lays out hierarchical graphs",
		Long:         `Strata computes positions for the nodes, ports and edges of nested graphs with a layered (Sugiyama-style) engine and a few simpler algorithms, and renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml); defaults to $"+configEnv)
	c.overrides.register(root)

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// layoutFlags override layout settings from the config file.
type layoutFlags struct {
	algorithm    string
	direction    string
	edgeRouting  string
	nodeSpacing  float64
	layerSpacing float64
	hierarchical bool
}

func (f *layoutFlags) register(root *cobra.Command) {
	fs := root.PersistentFlags()
	fs.StringVarP(&f.algorithm, "algorithm", "a", "", "layout algorithm: "+strings.Join(layout.Names, ", "))
	fs.StringVarP(&f.direction, "direction", "d", "", "flow direction: DOWN, UP, RIGHT, LEFT")
	fs.StringVar(&f.edgeRouting, "edge-routing", "", "edge routing: POLYLINE, ORTHOGONAL, SPLINES")
	fs.Float64Var(&f.nodeSpacing, "node-spacing", 0, "spacing between nodes in a layer")
	fs.Float64Var(&f.layerSpacing, "layer-spacing", 0, "spacing between layers")
	fs.BoolVar(&f.hierarchical, "hierarchical", false, "route edges across container boundaries")
}

// apply copies the flags the user set on cmd onto cfg.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	l := &cfg.Layout
	if fs.Changed("algorithm") {
		l.Algorithm = f.algorithm
	}
	if fs.Changed("direction") {
		l.Direction = f.direction
	}
	if fs.Changed("edge-routing") {
		l.EdgeRouting = f.edgeRouting
	}
	if fs.Changed("node-spacing") {
		l.NodeSpacing = f.nodeSpacing
	}
	if fs.Changed("layer-spacing") {
		l.LayerSpacing = f.layerSpacing
	}
	if fs.Changed("hierarchical") {
		l.Hierarchical = f.hierarchical
	}
}

// loadConfig reads the config file, applies flag overrides and validates.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.overrides.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newEngine creates a layout engine with the config's defaults.
func (c *CLI) newEngine(cfg *config.Config, logger *log.Logger) (*layout.Engine, error) {
	defaults, err := cfg.LayoutOptions()
	if err != nil {
		return nil, err
	}
	e := layout.NewEngine(logger)
	e.Defaults = defaults
	e.MaxDepth = cfg.Layout.MaxDepth
	return e, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config, logger *log.Logger, noCache bool) (*pipeline.Runner, error) {
	engine, err := c.newEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := newCache(cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	r := pipeline.NewRunner(engine, store, keyer, logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// newCache picks Redis when an address is configured, then the file cache.
func newCache(cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(cfg.RedisAddr), nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/strata/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
