package pip

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikmswamy/wheelhouse/pkg/errors"
)

func TestDownloadArgs(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   []string
	}{
		{
			name:   "host environment",
			target: Target{},
			want:   []string{"pip", "download", "numpy==1.23.4", "-d", "wheels"},
		},
		{
			name:   "full target",
			target: Target{Platform: "manylinux2014_x86_64", PythonVersion: "3.11", ABI: "cp311"},
			want: []string{
				"pip", "download", "numpy==1.23.4", "-d", "wheels",
				"--platform", "manylinux2014_x86_64",
				"--python-version", "3.11",
				"--abi", "cp311",
			},
		},
		{
			name:   "platform only",
			target: Target{Platform: "win_amd64"},
			want:   []string{"pip", "download", "numpy==1.23.4", "-d", "wheels", "--platform", "win_amd64"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			d := NewDownloader("wheels", tt.target, WithDownloadRunner(runner))

			outcome, err := d.Download(context.Background(), "numpy==1.23.4")
			require.NoError(t, err)
			assert.Equal(t, OutcomeDownloaded, outcome)
			assert.Equal(t, tt.want, runner.lastCall())
		})
	}
}

func TestDownloadNoDistribution(t *testing.T) {
	runner := &fakeRunner{
		run: func(string, []string) (Result, error) {
			return Result{Stderr: "ERROR: No matching distribution found for somepkg==9.9"}, fmt.Errorf("exit status 1")
		},
	}
	d := NewDownloader("wheels", Target{}, WithDownloadRunner(runner))

	outcome, err := d.Download(context.Background(), "somepkg==9.9")
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.NoError(t, err, "no-matching-distribution is an expected condition, not an error")
}

func TestDownloadFailure(t *testing.T) {
	runner := &fakeRunner{
		run: func(string, []string) (Result, error) {
			return Result{Stderr: "ERROR: HTTP error 503"}, fmt.Errorf("exit status 1")
		},
	}
	d := NewDownloader("wheels", Target{}, WithDownloadRunner(runner))

	outcome, err := d.Download(context.Background(), "numpy")
	assert.Equal(t, OutcomeFailed, outcome)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDownloadFailed))
}

func TestRunContinuesPastFailures(t *testing.T) {
	// The first specifier has no distribution, the second errors, the third
	// succeeds. The batch must attempt all three.
	responses := map[string]struct {
		res Result
		err error
	}{
		"missing==1.0": {Result{Stderr: "No matching distribution found for missing==1.0"}, fmt.Errorf("exit status 1")},
		"broken==2.0":  {Result{Stderr: "connection reset"}, fmt.Errorf("exit status 1")},
		"numpy==1.0":   {Result{}, nil},
	}
	runner := &fakeRunner{
		run: func(_ string, args []string) (Result, error) {
			r := responses[args[1]]
			return r.res, r.err
		},
	}

	var logged []string
	d := NewDownloader("wheels", Target{},
		WithDownloadRunner(runner),
		WithDownloadLogf(func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		}),
	)

	sum := d.Run(context.Background(), []string{"missing==1.0", "broken==2.0", "numpy==1.0"})

	assert.Equal(t, Summary{Downloaded: 1, Skipped: 1, Failed: 1}, sum)
	assert.Equal(t, 3, sum.Total())
	assert.Len(t, runner.calls, 3, "every specifier gets attempted")
	require.Len(t, logged, 3)
	assert.Contains(t, logged[0], "skipping missing==1.0")
	assert.Contains(t, logged[1], "error downloading broken==2.0")
	assert.Contains(t, logged[2], "downloaded numpy==1.0")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "downloaded", OutcomeDownloaded.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
