package cache

// LayoutKeyOpts are the inputs besides the graph record that change a
// layout result.
type LayoutKeyOpts struct {
	// Options is the flat map of default layout options in effect.
	Options map[string]any `json:"options,omitempty"`
	// MaxDepth is the engine's nesting limit.
	MaxDepth int `json:"max_depth,omitempty"`
	// Version is the engine version, so upgrades invalidate old entries.
	Version string `json:"version,omitempty"`
}

// RenderKeyOpts are the inputs that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string  `json:"format"`
	Labels   bool    `json:"labels,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout of the graph record with the
	// given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// RenderKey returns the key of an artifact rendered from a layout.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes every key component into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
