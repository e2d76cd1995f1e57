package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/pkg/graph"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Check a graph record and its constraints",
		Long: `Check a graph record and its constraints.

The record is decoded and laid out without caching. Malformed records
(duplicate ids, bad port sides, bad padding, unknown algorithms) fail
immediately; constraints that do not hold after layout (a fixed node that
moved, an alignment group that diverges, a relative reference to a missing
node) are listed and make the command fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd, args[0])
		},
	}
}

func (c *CLI) runValidate(cmd *cobra.Command, input string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	record, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	g, err := graph.UnmarshalGraph(record)
	if err != nil {
		return err
	}
	engine, err := c.newEngine(cfg, loggerFromContext(ctx))
	if err != nil {
		return err
	}
	report, err := engine.LayoutWithReport(ctx, g)
	if err != nil {
		return err
	}

	printKeyValue(out, "algorithm", report.Algorithm)
	printKeyValue(out, "nodes", fmt.Sprint(report.Nodes))
	printKeyValue(out, "levels", fmt.Sprint(report.Levels))
	printKeyValue(out, "reversed", fmt.Sprint(report.Reversed))

	if n := len(report.Violations); n > 0 {
		printNewline(out)
		printViolations(out, report.Violations)
		return fmt.Errorf("%d constraint violations", n)
	}
	printSuccess(out, "All constraints hold")
	return nil
}
