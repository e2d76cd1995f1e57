package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/pkg/graph"
)

// layoutCommand creates the layout command for positioning a graph record.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute positions for a graph record",
		Long: `Compute positions for a graph record.

The layout command reads a JSON graph record, lays it out and writes the same
record with positions, sizes, port placements and edge sections filled in.
Use "-" as input to read from stdin and "-o -" to write to stdout.

Constraint violations found after layout are reported as warnings.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runLayout loads the record, lays it out and writes the positioned record.
func (c *CLI) runLayout(cmd *cobra.Command, input, output string, noCache, refresh bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

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

	prog := newProgress(logger)
	outcome, cacheHit, err := runner.LayoutWithCacheInfo(ctx, record, refresh)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	nodes, edges := len(graph.Nodes(outcome.Graph)), len(graph.AllEdges(outcome.Graph))
	prog.done(fmt.Sprintf("Laid out %d nodes", nodes))

	data, err := graph.MarshalGraph(outcome.Graph)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	if output == "-" {
		_, err := out.Write(data)
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivePath(input, ".layout.json")
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess(out, "Layout complete")
	printFile(out, outputPath)
	printStats(out, nodes, edges, len(outcome.Violations), cacheHit)
	printViolations(out, outcome.Violations)
	printNewline(out)
	printNextStep(out, "Render", appName+" render "+outputPath)

	return nil
}

// readInput reads a graph record from a file, or from stdin for "-".
func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	if input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", input, err)
	}
	return data, nil
}

// derivePath replaces the extension of input with suffix. Stdin input
// derives from "graph".
func derivePath(input, suffix string) string {
	if input == "-" {
		input = "graph.json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
