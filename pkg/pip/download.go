package pip

import (
	"context"
	"strings"

	"github.com/karthikmswamy/wheelhouse/pkg/errors"
)

// noDistributionMarker is pip's stderr message when no artifact matches the
// requested specifier/target combination.
const noDistributionMarker = "No matching distribution found"

// Target selects the environment a download is resolved for. Zero-value
// fields are omitted and pip falls back to the invoking host's environment.
type Target struct {
	Platform      string // e.g. "manylinux2014_x86_64"
	PythonVersion string // e.g. "3.11"
	ABI           string // e.g. "cp311"
}

// Outcome classifies the result of one download attempt.
type Outcome int

const (
	// OutcomeDownloaded means the artifact landed in the destination directory.
	OutcomeDownloaded Outcome = iota
	// OutcomeSkipped means pip found no matching distribution; an expected,
	// tolerated condition.
	OutcomeSkipped
	// OutcomeFailed means the download failed for any other reason.
	OutcomeFailed
)

// String returns the outcome's display name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Summary aggregates the outcomes of a download batch.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of specifiers attempted.
func (s Summary) Total() int { return s.Downloaded + s.Skipped + s.Failed }

// Downloader bulk-downloads distribution artifacts via `pip download`.
// Specifiers are processed one at a time; a per-package failure never aborts
// the batch.
type Downloader struct {
	pip    string
	dest   string
	target Target
	runner Runner
	logf   func(format string, args ...any)
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadRunner substitutes the subprocess runner (used by tests).
func WithDownloadRunner(r Runner) DownloaderOption {
	return func(d *Downloader) { d.runner = r }
}

// WithPip sets the pip executable. Default is "pip" from PATH.
func WithPip(pip string) DownloaderOption {
	return func(d *Downloader) { d.pip = pip }
}

// WithDownloadLogf sets the logging callback for per-package outcomes.
func WithDownloadLogf(logf func(format string, args ...any)) DownloaderOption {
	return func(d *Downloader) { d.logf = logf }
}

// NewDownloader returns a Downloader writing artifacts to dest for the given
// target.
func NewDownloader(dest string, target Target, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		pip:    "pip",
		dest:   dest,
		target: target,
		runner: ExecRunner{},
		logf:   func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download requests one specifier for the configured target. A nil error
// accompanies OutcomeDownloaded and OutcomeSkipped; OutcomeFailed carries a
// DOWNLOAD_FAILED error describing what pip reported.
func (d *Downloader) Download(ctx context.Context, spec string) (Outcome, error) {
	args := []string{"download", spec, "-d", d.dest}
	if d.target.Platform != "" {
		args = append(args, "--platform", d.target.Platform)
	}
	if d.target.PythonVersion != "" {
		args = append(args, "--python-version", d.target.PythonVersion)
	}
	if d.target.ABI != "" {
		args = append(args, "--abi", d.target.ABI)
	}

	res, err := d.runner.Run(ctx, d.pip, args...)
	if err != nil {
		if strings.Contains(res.Stderr, noDistributionMarker) {
			return OutcomeSkipped, nil
		}
		return OutcomeFailed, errors.Wrap(errors.ErrCodeDownloadFailed, err, "download %s: %s", spec, errDetail(res, err))
	}
	return OutcomeDownloaded, nil
}

// Run downloads every specifier in order, logging each outcome and tolerating
// per-package failures. It returns the batch summary.
func (d *Downloader) Run(ctx context.Context, specs []string) Summary {
	var sum Summary
	for _, spec := range specs {
		outcome, err := d.Download(ctx, spec)
		switch outcome {
		case OutcomeDownloaded:
			sum.Downloaded++
			d.logf("downloaded %s", spec)
		case OutcomeSkipped:
			sum.Skipped++
			d.logf("skipping %s: no matching distribution found", spec)
		case OutcomeFailed:
			sum.Failed++
			d.logf("error downloading %s: %v", spec, err)
		}
	}
	return sum
}
