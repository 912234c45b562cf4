package cli

import (
	"context"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/karthikmswamy/wheelhouse/pkg/dag"
	"github.com/karthikmswamy/wheelhouse/pkg/errors"
	"github.com/karthikmswamy/wheelhouse/pkg/pip"
	"github.com/karthikmswamy/wheelhouse/pkg/render"
	"github.com/karthikmswamy/wheelhouse/pkg/requirements"
	"github.com/karthikmswamy/wheelhouse/pkg/split"
)

// splitOpts holds the command-line flags for the split command.
type splitOpts struct {
	independent string // independent output path
	dependent   string // dependent output path
	python      string // interpreter used to provision the venv
	envDir      string // ephemeral environment directory
	keepEnv     bool   // skip teardown (debug aid)
	dotOut      string // DOT export path (empty = no export)
	svgOut      string // SVG export path
	jsonOut     string // JSON export path

	runner pip.Runner // substituted by tests; nil means os/exec
}

// applyConfig fills in every option whose flag the user did not set
// explicitly. Flags always win over configuration.
func (o *splitOpts) applyConfig(cfg SplitConfig, flags *pflag.FlagSet) {
	if !flags.Changed("independent") {
		o.independent = cfg.Independent
	}
	if !flags.Changed("dependent") {
		o.dependent = cfg.Dependent
	}
	if !flags.Changed("python") {
		o.python = cfg.Python
	}
	if !flags.Changed("env-dir") {
		o.envDir = cfg.EnvDir
	}
}

// newSplitCmd creates the split command. Configuration is read when the
// command runs, so a broken wheelhouse.toml never affects other commands.
func newSplitCmd() *cobra.Command {
	defaults := defaultConfig().Split
	opts := splitOpts{
		independent: defaults.Independent,
		dependent:   defaults.Dependent,
		python:      defaults.Python,
		envDir:      defaults.EnvDir,
	}

	cmd := &cobra.Command{
		Use:   "split <requirements-file>",
		Short: "Split a requirements list into independent and dependent subsets",
		Long: `Split a flat requirements list into two files: packages no sibling in the
list depends on (independent) and packages at least one sibling depends on
(dependent).

The command provisions a throwaway virtualenv, installs the listed packages
plus pipdeptree, queries the dependency graph of the installed set, and
classifies each original specifier. The virtualenv is removed when the run
finishes, whether it succeeded or not.

Examples:
  wheelhouse split requirements.txt
  wheelhouse split requirements.txt -i ind.txt -d dep.txt
  wheelhouse split requirements.txt --dot deps.dot --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			opts.applyConfig(cfg.Split, c.Flags())
			return runSplit(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.independent, "independent", "i", opts.independent, "output file for independent packages")
	cmd.Flags().StringVarP(&opts.dependent, "dependent", "d", opts.dependent, "output file for dependent packages")
	cmd.Flags().StringVar(&opts.python, "python", opts.python, "interpreter used to create the virtualenv")
	cmd.Flags().StringVar(&opts.envDir, "env-dir", opts.envDir, "directory for the ephemeral virtualenv")
	cmd.Flags().BoolVar(&opts.keepEnv, "keep-env", false, "keep the virtualenv after the run (for debugging)")
	cmd.Flags().StringVar(&opts.dotOut, "dot", "", "write the in-scope dependency graph as Graphviz DOT")
	cmd.Flags().StringVar(&opts.svgOut, "svg", "", "render the in-scope dependency graph as SVG")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "write the in-scope dependency graph as JSON")

	return cmd
}

// runSplit drives one partitioning run: load, provision, install, query,
// classify, write, teardown. Teardown is deferred before provisioning, so
// it runs on every exit path once an environment directory may exist.
func runSplit(ctx context.Context, opts *splitOpts, reqFile string) error {
	logger := loggerFromContext(ctx)

	specs, err := requirements.Load(reqFile)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrCodeInputNotFound):
			// Reported, not propagated: no environment is created and no
			// output file is touched.
			printError("%s", errors.UserMessage(err))
			return nil
		case errors.Is(err, errors.ErrCodeEmptyInput):
			logger.Warnf("%s", errors.UserMessage(err))
			return nil
		}
		return err
	}

	original := requirements.BaseNameSet(specs)
	logger.Infof("Analyzing %d packages from %s", len(specs), reqFile)

	envOpts := []pip.EnvOption{
		pip.WithPython(opts.python),
		pip.WithLogf(logger.Warnf),
	}
	if opts.runner != nil {
		envOpts = append(envOpts, pip.WithRunner(opts.runner))
	}
	env := pip.NewEnv(opts.envDir, envOpts...)

	// Teardown is registered before provisioning: a failed `python -m venv`
	// can leave a half-created directory behind, and that must be removed
	// on the way out too.
	defer func() {
		if opts.keepEnv {
			logger.Infof("Keeping environment at %s", env.Dir())
			return
		}
		logger.Debugf("Removing ephemeral environment at %s", env.Dir())
		env.Destroy()
	}()

	logger.Debugf("Creating ephemeral environment at %s", env.Dir())
	if err := env.Create(ctx); err != nil {
		return err
	}

	logger.Debugf("Installing %s", pip.DeptreeTool)
	if err := env.Install(ctx, pip.DeptreeTool); err != nil {
		return err
	}

	sp := startSpinner("Installing requirements into the ephemeral environment...")
	prog := newProgress(logger)
	installErr := env.InstallRequirements(ctx, reqFile)
	sp.Stop()
	if installErr != nil {
		logger.Warnf("%s", errors.UserMessage(installErr))
		printWarning("Some packages failed to install; proceeding with partial data, results may be inaccurate")
		if logger.GetLevel() <= charmlog.DebugLevel {
			if pkgs, err := env.Installed(ctx); err == nil {
				logger.Debugf("%d packages present after partial install", len(pkgs))
			}
		}
	} else {
		prog.done("Installed requirements")
	}

	records, err := env.DependencyGraph(ctx)
	if err != nil {
		return err
	}

	depended := split.DependedUpon(original, records)
	independent, dependent := split.Partition(specs, depended)

	if err := requirements.WriteFile(opts.independent, independent); err != nil {
		return err
	}
	if err := requirements.WriteFile(opts.dependent, dependent); err != nil {
		return err
	}

	g := split.Graph(original, records)
	printSuccess("Partitioned %d packages", len(specs))
	printFile(opts.independent)
	printFile(opts.dependent)
	printStats(len(independent), len(dependent), g.EdgeCount())

	return exportGraph(g, depended, opts, logger)
}

// exportGraph writes the optional DOT/SVG/JSON views of the in-scope graph.
// Export happens after the partition files are written and never changes the
// classification.
func exportGraph(g *dag.Graph, depended map[string]bool, opts *splitOpts, logger *charmlog.Logger) error {
	isDependent := func(id string) bool { return depended[id] }

	if opts.dotOut != "" {
		if err := render.ExportDOT(g, isDependent, opts.dotOut); err != nil {
			return err
		}
		logger.Infof("Wrote DOT graph to %s", opts.dotOut)
	}
	if opts.jsonOut != "" {
		if err := render.ExportJSON(g, isDependent, opts.jsonOut); err != nil {
			return err
		}
		logger.Infof("Wrote JSON graph to %s", opts.jsonOut)
	}
	if opts.svgOut != "" {
		if err := render.ExportSVG(g, isDependent, opts.svgOut); err != nil {
			return err
		}
		logger.Infof("Wrote SVG graph to %s", opts.svgOut)
	}
	return nil
}
