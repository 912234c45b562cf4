package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadOptsApplyConfig(t *testing.T) {
	opts := downloadOpts{}
	fs := pflag.NewFlagSet("download", pflag.ContinueOnError)
	fs.StringVarP(&opts.dest, "dest", "d", "", "")
	fs.StringVar(&opts.platform, "platform", "", "")
	fs.StringVar(&opts.pythonVersion, "python-version", "", "")
	fs.StringVar(&opts.abi, "abi", "", "")
	fs.StringVar(&opts.pip, "pip", "", "")
	require.NoError(t, fs.Parse([]string{"--dest", "custom_wheels", "--abi", "cp312"}))

	opts.applyConfig(DownloadConfig{
		Dest:          "vendor_wheels",
		Platform:      "manylinux2014_x86_64",
		PythonVersion: "3.11",
		ABI:           "cp311",
		Pip:           "pip",
	}, fs)

	assert.Equal(t, "custom_wheels", opts.dest, "explicit flags win over configuration")
	assert.Equal(t, "cp312", opts.abi)
	assert.Equal(t, "manylinux2014_x86_64", opts.platform)
	assert.Equal(t, "3.11", opts.pythonVersion)
	assert.Equal(t, "pip", opts.pip)
}
