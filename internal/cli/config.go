package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/karthikmswamy/wheelhouse/pkg/errors"
)

// configFile is the optional per-directory configuration file.
const configFile = "wheelhouse.toml"

// Config supplies defaults for command flags. Precedence, lowest to highest:
// built-in defaults, wheelhouse.toml, WHEELHOUSE_* environment variables
// (including any loaded from a .env file), explicit flags.
type Config struct {
	Split    SplitConfig    `toml:"split"`
	Download DownloadConfig `toml:"download"`
}

// SplitConfig holds defaults for the split command.
type SplitConfig struct {
	Independent string `toml:"independent"` // independent output path
	Dependent   string `toml:"dependent"`   // dependent output path
	Python      string `toml:"python"`      // interpreter used to provision the venv
	EnvDir      string `toml:"env_dir"`     // ephemeral environment directory
}

// DownloadConfig holds defaults for the download command.
type DownloadConfig struct {
	Dest          string `toml:"dest"`
	Platform      string `toml:"platform"`
	PythonVersion string `toml:"python_version"`
	ABI           string `toml:"abi"`
	Pip           string `toml:"pip"`
}

func defaultConfig() Config {
	return Config{
		Split: SplitConfig{
			Independent: "requirements_independent.txt",
			Dependent:   "requirements_dependent.txt",
			Python:      "python3",
			EnvDir:      ".wheelhouse-env",
		},
		Download: DownloadConfig{
			Dest: "vendor_wheels",
			Pip:  "pip",
		},
	}
}

// loadConfig reads configuration from dir. A missing wheelhouse.toml or .env
// is fine; an unreadable or invalid toml file is a fatal misconfiguration.
func loadConfig(dir string) (Config, error) {
	// .env feeds the process environment before the WHEELHOUSE_* overrides
	// below are read.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := defaultConfig()

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if python := os.Getenv("WHEELHOUSE_PYTHON"); python != "" {
		cfg.Split.Python = python
	}
	if pip := os.Getenv("WHEELHOUSE_PIP"); pip != "" {
		cfg.Download.Pip = pip
	}

	return cfg, nil
}
