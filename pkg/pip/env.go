package pip

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/karthikmswamy/wheelhouse/pkg/errors"
)

// DeptreeTool is the dependency-introspection package installed into the
// ephemeral environment.
const DeptreeTool = "pipdeptree"

// Package is one installed package as reported by `pip list --format=json`.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Dependency is one dependency entry of a graph record.
type Dependency struct {
	Key string `json:"key"`
}

// GraphRecord is one package's entry in the dependency graph reported by
// pipdeptree: the package's key plus its direct runtime dependencies.
type GraphRecord struct {
	Key          string       `json:"key"`
	Dependencies []Dependency `json:"dependencies"`
}

// Env is a disposable virtualenv used for one dependency analysis run.
// It has no identity beyond the run: Create provisions it, Destroy removes it.
// The directory is a shared named path; two runs must not use the same
// directory concurrently (no lock is taken).
type Env struct {
	dir    string
	python string
	runner Runner
	logf   func(format string, args ...any)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithRunner substitutes the subprocess runner (used by tests).
func WithRunner(r Runner) EnvOption {
	return func(e *Env) { e.runner = r }
}

// WithPython sets the interpreter used to provision the virtualenv.
// Default is "python3".
func WithPython(python string) EnvOption {
	return func(e *Env) { e.python = python }
}

// WithLogf sets the logging callback for non-fatal events (teardown failures).
func WithLogf(logf func(format string, args ...any)) EnvOption {
	return func(e *Env) { e.logf = logf }
}

// NewEnv returns an Env rooted at dir. Nothing is created until Create is
// called.
func NewEnv(dir string, opts ...EnvOption) *Env {
	e := &Env{
		dir:    dir,
		python: "python3",
		runner: ExecRunner{},
		logf:   func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the environment's root directory.
func (e *Env) Dir() string { return e.dir }

// Create provisions the virtualenv via `python -m venv`. Failure is fatal to
// the run (ENV_PROVISION).
func (e *Env) Create(ctx context.Context) error {
	res, err := e.runner.Run(ctx, e.python, "-m", "venv", e.dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEnvProvision, err, "create virtualenv at %s: %s", e.dir, errDetail(res, err))
	}
	return nil
}

// Install installs the named packages into the environment. Failure is fatal
// (TOOL_INSTALL); this is used for helper tools the analysis cannot run
// without.
func (e *Env) Install(ctx context.Context, pkgs ...string) error {
	args := append([]string{"install"}, pkgs...)
	res, err := e.runner.Run(ctx, e.pip(), args...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolInstall, err, "install %v: %s", pkgs, errDetail(res, err))
	}
	return nil
}

// InstallRequirements installs every specifier in the file via
// `pip install -r`. A failure is reported as PARTIAL_INSTALL: pip may have
// installed a subset before giving up, and the analysis can proceed on that
// subset with degraded accuracy. The caller decides whether to continue.
func (e *Env) InstallRequirements(ctx context.Context, path string) error {
	res, err := e.runner.Run(ctx, e.pip(), "install", "-r", path)
	if err != nil {
		return errors.Wrap(errors.ErrCodePartialInstall, err, "install -r %s: %s", path, errDetail(res, err))
	}
	return nil
}

// Installed returns the packages currently present in the environment,
// as reported by `pip list --format=json`.
func (e *Env) Installed(ctx context.Context) ([]Package, error) {
	res, err := e.runner.Run(ctx, e.pip(), "list", "--format=json")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipExec, err, "pip list: %s", errDetail(res, err))
	}

	var pkgs []Package
	if err := json.Unmarshal([]byte(res.Stdout), &pkgs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedOutput, err, "parse pip list output")
	}
	return pkgs, nil
}

// DependencyGraph returns the dependency graph of the installed set, as
// reported by pipdeptree running inside the environment. Only runtime
// dependency edges are reported. A subprocess failure usually means the
// introspection tool is missing or broken (GRAPH_QUERY); unparseable output
// is reported distinctly (MALFORMED_OUTPUT).
func (e *Env) DependencyGraph(ctx context.Context) ([]GraphRecord, error) {
	res, err := e.runner.Run(ctx, e.envPython(), "-m", DeptreeTool, "--json")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphQuery, err, "query dependency graph: %s", errDetail(res, err))
	}

	var records []GraphRecord
	if err := json.Unmarshal([]byte(res.Stdout), &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedOutput, err, "parse %s output", DeptreeTool)
	}
	return records, nil
}

// Destroy removes all environment state. Failures are logged, never returned;
// teardown is best-effort on every exit path.
func (e *Env) Destroy() {
	if err := os.RemoveAll(e.dir); err != nil {
		e.logf("remove %s: %v", e.dir, err)
	}
}

// pip returns the path of the pip executable inside the environment.
func (e *Env) pip() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.dir, "Scripts", "pip.exe")
	}
	return filepath.Join(e.dir, "bin", "pip")
}

// envPython returns the path of the interpreter inside the environment.
func (e *Env) envPython() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.dir, "Scripts", "python.exe")
	}
	return filepath.Join(e.dir, "bin", "python")
}
