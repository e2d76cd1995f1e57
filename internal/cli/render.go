package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/pkg/pipeline"
)

// extensions maps formats to output file suffixes.
var extensions = map[string]string{
	pipeline.FormatJSON:     ".layout.json",
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatGraphviz: ".graphviz.svg",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatPDF:      ".pdf",
	pipeline.FormatPNG:      ".png",
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Lay out a graph record and render it",
		Long: `Lay out a graph record and render it.

Formats:
  svg       built-in SVG drawing (default)
  dot       Graphviz source with pinned positions
  graphviz  SVG drawn by Graphviz from the DOT source
  pdf, png  converted from SVG (requires rsvg-convert)
  json      the positioned graph record

Output files are named <output>.<ext>; the base defaults to the input path
without its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd, args[0], output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg, dot, graphviz, pdf, png, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.Labels, "labels", true, "draw node labels (svg, pdf, png)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add positions and properties to labels (dot, graphviz)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input, output string, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	if err := opts.Validate(); err != nil {
		return err
	}
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	record, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, logger, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, record, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := output
	if base == "" {
		base = derivePath(input, "")
	}
	var paths []string
	for _, format := range opts.Formats {
		path := base + extensions[format]
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess(out, "Rendered %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, p := range paths {
		printFile(out, p)
	}
	printStats(out, result.Stats.NodeCount, result.Stats.EdgeCount, len(result.Violations),
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printViolations(out, result.Violations)
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return formats
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
