package cli

import (
	"github.com/spf13/pflag"

	"github.com/cpcf/listfiles/config"
)

// applyFlags overlays the flags the user actually set onto cfg, so values
// from the config file survive unless overridden, then validates the result.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	if fs.Changed("suffix") {
		suffix, err := fs.GetString("suffix")
		if err != nil {
			return err
		}
		cfg.Suffix = suffix
	}

	if fs.Changed("fail-at-end") {
		failAtEnd, err := fs.GetBool("fail-at-end")
		if err != nil {
			return err
		}
		cfg.FailureMode = config.FailFast
		if failAtEnd {
			cfg.FailureMode = config.FailAtEnd
		}
	}

	if fs.Changed("no-goimports") {
		noGoImports, err := fs.GetBool("no-goimports")
		if err != nil {
			return err
		}
		cfg.GoImports = !noGoImports
	}

	if fs.Changed("files-only") {
		filesOnly, err := fs.GetBool("files-only")
		if err != nil {
			return err
		}
		cfg.FilesOnly = filesOnly
	}

	if fs.Changed("no-follow") {
		noFollow, err := fs.GetBool("no-follow")
		if err != nil {
			return err
		}
		cfg.NoFollow = noFollow
	}

	if fs.Changed("jobs") {
		jobs, err := fs.GetInt("jobs")
		if err != nil {
			return err
		}
		cfg.Jobs = jobs
	}

	verbose, err := fs.GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg.Validate()
}
