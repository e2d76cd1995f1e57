package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the strata CLI with os.Args and returns an error if any
// command fails. Cancelling ctx stops long-running commands such as serve.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//   - With --log-format json or logfmt: machine-readable records
//
// The logger is attached to the context and accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	return execute(ctx, New(os.Stderr, LogInfo), os.Args[1:])
}

func execute(ctx context.Context, c *CLI, args []string) error {
	var (
		verbose   bool
		logFormat string
	)

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", logFormatText, "log output format: text, json, logfmt")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		formatter, err := parseLogFormat(logFormat)
		if err != nil {
			return err
		}
		c.Logger.SetFormatter(formatter)
		if preRun != nil {
			return preRun(cmd, args)
		}
		return nil
	}

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
