// Package cli implements the activscan command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/activscan/internal/config"
	"github.com/okian/activscan/pkg/logger"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// options shared by every subcommand.
type rootOptions struct {
	logLevel string
	logJSON  bool

	cfg *config.Config
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "activscan",
		Short: "Flag unusual telecom activation records",
		Long: `activscan scores a CSV of activation events with an isolation forest and
labels each record Normal or Anomaly. Every file is scored on its own.

Configuration is read from ACTIVSCAN_* environment variables and the optional
YAML file named by ACTIVSCAN_CONFIG; flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			if err := logger.InitWithWriter(stderr, opts.logJSON); err != nil {
				return err
			}
			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = opts.logLevel
			}
			return logger.SetLevelString(level)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	f.BoolVar(&opts.logJSON, "log-json", false, "emit JSON log records")

	root.AddCommand(
		newScoreCommand(opts),
		newGenerateCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "activscan", Version)
		},
	}
}

// createOutput opens path for writing, or returns w when path is empty or "-".
func createOutput(path string, w io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path) //nolint:gosec // user supplied output path
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
