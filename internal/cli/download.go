package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/karthikmswamy/wheelhouse/pkg/errors"
	"github.com/karthikmswamy/wheelhouse/pkg/pip"
	"github.com/karthikmswamy/wheelhouse/pkg/requirements"
)

// downloadOpts holds the command-line flags for the download command.
type downloadOpts struct {
	dest          string
	platform      string
	pythonVersion string
	abi           string
	pip           string
}

// applyConfig fills in every option whose flag the user did not set
// explicitly. Flags always win over configuration.
func (o *downloadOpts) applyConfig(cfg DownloadConfig, flags *pflag.FlagSet) {
	if !flags.Changed("dest") {
		o.dest = cfg.Dest
	}
	if !flags.Changed("platform") {
		o.platform = cfg.Platform
	}
	if !flags.Changed("python-version") {
		o.pythonVersion = cfg.PythonVersion
	}
	if !flags.Changed("abi") {
		o.abi = cfg.ABI
	}
	if !flags.Changed("pip") {
		o.pip = cfg.Pip
	}
}

// newDownloadCmd creates the download command. Configuration is read when
// the command runs, so a broken wheelhouse.toml never affects other commands.
func newDownloadCmd() *cobra.Command {
	defaults := defaultConfig().Download
	opts := downloadOpts{
		dest:          defaults.Dest,
		platform:      defaults.Platform,
		pythonVersion: defaults.PythonVersion,
		abi:           defaults.ABI,
		pip:           defaults.Pip,
	}

	cmd := &cobra.Command{
		Use:   "download <requirements-file>",
		Short: "Bulk-download distribution artifacts for the listed packages",
		Long: `Download a distribution artifact for every specifier in the requirements
file, one at a time. Packages with no matching distribution for the target
are skipped; any other per-package failure is logged and the batch continues.

When --platform, --python-version, or --abi are set, downloads are resolved
for that target instead of the invoking host's own environment.

Examples:
  wheelhouse download requirements.txt
  wheelhouse download requirements.txt -d vendor_wheels \
      --platform manylinux2014_x86_64 --python-version 3.11 --abi cp311`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			opts.applyConfig(cfg.Download, c.Flags())
			return runDownload(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.dest, "dest", "d", opts.dest, "destination directory for downloaded artifacts")
	cmd.Flags().StringVar(&opts.platform, "platform", opts.platform, "target platform tag (e.g. manylinux2014_x86_64)")
	cmd.Flags().StringVar(&opts.pythonVersion, "python-version", opts.pythonVersion, "target Python version (e.g. 3.11)")
	cmd.Flags().StringVar(&opts.abi, "abi", opts.abi, "target ABI tag (e.g. cp311)")
	cmd.Flags().StringVar(&opts.pip, "pip", opts.pip, "pip executable to invoke")

	return cmd
}

// runDownload processes the whole requirements list sequentially. Individual
// download failures never abort the batch.
func runDownload(ctx context.Context, opts *downloadOpts, reqFile string) error {
	logger := loggerFromContext(ctx)

	specs, err := requirements.Load(reqFile)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrCodeInputNotFound):
			printError("%s", errors.UserMessage(err))
			return nil
		case errors.Is(err, errors.ErrCodeEmptyInput):
			logger.Warnf("%s", errors.UserMessage(err))
			return nil
		}
		return err
	}

	target := pip.Target{
		Platform:      opts.platform,
		PythonVersion: opts.pythonVersion,
		ABI:           opts.abi,
	}
	if target != (pip.Target{}) {
		printInfo("Targeting platform=%q python-version=%q abi=%q", target.Platform, target.PythonVersion, target.ABI)
	}
	d := pip.NewDownloader(opts.dest, target,
		pip.WithPip(opts.pip),
		pip.WithDownloadLogf(logger.Infof),
	)

	logger.Infof("Downloading %d packages to %s", len(specs), opts.dest)
	prog := newProgress(logger)
	sum := d.Run(ctx, specs)
	prog.done(fmt.Sprintf("Processed %d specifiers", sum.Total()))

	printSuccess("Finished processing requirements")
	printDetail("%d downloaded, %d skipped, %d failed", sum.Downloaded, sum.Skipped, sum.Failed)
	if sum.Failed > 0 {
		printWarning("%d packages failed to download; see log output above", sum.Failed)
	}
	return nil
}
