package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/karthikmswamy/wheelhouse/pkg/buildinfo"
)

// Execute runs the wheelhouse CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The root command wires up the two pipelines (split, download) plus shell
// completions, configures logging based on the --verbose flag, and attaches a
// per-invocation run ID to the logger. The pipeline commands read their flag
// defaults from an optional wheelhouse.toml / .env when they run; completion
// and --version never touch configuration.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "wheelhouse",
		Short:        "Wheelhouse partitions and vendors pip requirements",
		Long:         `Wheelhouse is a CLI tool for working with pip requirements lists: it splits a flat list into independent and dependent subsets based on inter-package dependencies, and bulk-downloads distribution artifacts for a target platform.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level).With("run", uuid.NewString()[:8])
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSplitCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
