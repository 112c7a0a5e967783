package config

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"fontex/internal/app"
	"fontex/internal/logging"
)

type Config struct {
	SourceDir    string
	TargetDir    string
	Pattern      string
	Verbosity    logging.Verbosity
	LogFormat    logging.Format
	Force        bool
	DryRun       bool
	AbortOnError bool
	Jobs         int
	Interactive  bool
	// SkipUnreadable turns unreadable sub-directories into warnings.
	SkipUnreadable bool
}

func Default() Config {
	return Config{
		Pattern:   app.DefaultPattern,
		Verbosity: logging.Info,
		LogFormat: logging.FormatText,
		Jobs:      1,
	}
}

// fileConfig is the on-disk shape of the optional YAML config file.
type fileConfig struct {
	Source       string `yaml:"source"`
	Pattern      string `yaml:"pattern"`
	Verbosity    string `yaml:"verbosity"`
	LogFormat    string `yaml:"log_format"`
	Force        *bool  `yaml:"force"`
	AbortOnError *bool  `yaml:"abort_on_error"`
	Jobs         int    `yaml:"jobs"`
}

// DefaultConfigPath is ~/.config/fontex/config.yaml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fontex", "config.yaml")
}

// Load starts from Default and merges the YAML file at path over it. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, errors.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Source != "" {
		cfg.SourceDir = fc.Source
	}
	if fc.Pattern != "" {
		cfg.Pattern = fc.Pattern
	}
	if fc.Verbosity != "" {
		v, err := logging.ParseVerbosity(fc.Verbosity)
		if err != nil {
			return Config{}, errors.Errorf("config file %s: %w", path, err)
		}
		cfg.Verbosity = v
	}
	if fc.LogFormat != "" {
		f, err := logging.ParseFormat(fc.LogFormat)
		if err != nil {
			return Config{}, errors.Errorf("config file %s: %w", path, err)
		}
		cfg.LogFormat = f
	}
	if fc.Force != nil {
		cfg.Force = *fc.Force
	}
	if fc.AbortOnError != nil {
		cfg.AbortOnError = *fc.AbortOnError
	}
	if fc.Jobs != 0 {
		cfg.Jobs = fc.Jobs
	}
	return cfg, nil
}

// ApplyEnv overlays FONTEX_* environment variables. Flags applied later
// take precedence over both.
func (c *Config) ApplyEnv() error {
	if v := envOrEmpty("FONTEX_SOURCE_DIR"); v != "" {
		c.SourceDir = v
	}
	if v := envOrEmpty("FONTEX_PATTERN"); v != "" {
		c.Pattern = v
	}
	if v := envOrEmpty("FONTEX_VERBOSITY"); v != "" {
		parsed, err := logging.ParseVerbosity(v)
		if err != nil {
			return errors.Errorf("FONTEX_VERBOSITY: %w", err)
		}
		c.Verbosity = parsed
	}
	if envTruthy("FONTEX_FORCE") {
		c.Force = true
	}
	if envTruthy("FONTEX_DRY_RUN") {
		c.DryRun = true
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := logging.ParseVerbosity(string(c.Verbosity)); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(string(c.LogFormat)); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return errors.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
