package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".listfiles.yaml"

const (
	FailFast  = "fail-fast"
	FailAtEnd = "fail-at-end"
)

// Config holds the generator settings. The zero value is not usable; start
// from Default.
type Config struct {
	Suffix      string `yaml:"suffix"`
	FailureMode string `yaml:"failure_mode"`
	GoImports   bool   `yaml:"goimports"`
	FilesOnly   bool   `yaml:"files_only"`
	NoFollow    bool   `yaml:"no_follow"`
	Jobs        int    `yaml:"jobs"`
	LogLevel    string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Suffix:      "_listfiles",
		FailureMode: FailFast,
		GoImports:   true,
		LogLevel:    "info",
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Suffix == "" {
		errs = append(errs, errors.New("suffix must not be empty"))
	}
	if strings.ContainsAny(c.Suffix, `/\`) || strings.HasSuffix(c.Suffix, ".go") || strings.HasSuffix(c.Suffix, "_test") {
		errs = append(errs, fmt.Errorf("suffix %q must be a plain file name fragment", c.Suffix))
	}
	switch c.FailureMode {
	case FailFast, FailAtEnd:
	default:
		errs = append(errs, fmt.Errorf("failure_mode %q must be %q or %q", c.FailureMode, FailFast, FailAtEnd))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Load starts from Default and overlays path. An empty path loads
// DefaultFile when it exists and returns the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		path = DefaultFile
	}

	if err := LoadYAML(filepath.Clean(path), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
