package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"constlit/internal/driver"
)

const configFileName = "constlit.toml"

type projectConfig struct {
	Check   checkConfig   `toml:"check"`
	Policy  policyConfig  `toml:"policy"`
	Prelude preludeConfig `toml:"prelude"`
}

type checkConfig struct {
	Jobs           int   `toml:"jobs"`
	MaxDiagnostics int   `toml:"max_diagnostics"`
	Cache          *bool `toml:"cache"`
}

type policyConfig struct {
	AllowConstLocalsInLiterals *bool `toml:"allow_const_locals_in_literals"`
}

type preludeConfig struct {
	Names []string `toml:"names"`
}

// findConfig ищет constlit.toml вверх от startDir
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfigFile(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Check.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: check.jobs must not be negative", path)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return projectConfig{}, fmt.Errorf("%s: check.max_diagnostics must not be negative", path)
	}
	for _, name := range cfg.Prelude.Names {
		if strings.TrimSpace(name) == "" {
			return projectConfig{}, fmt.Errorf("%s: prelude.names contains an empty name", path)
		}
	}
	return cfg, nil
}

// loadConfig returns the explicit config when path is set, otherwise the
// first constlit.toml found upwards from startDir. A missing file is not an
// error; the returned path is empty then.
func loadConfig(path, startDir string) (projectConfig, string, error) {
	if path == "" {
		found, ok, err := findConfig(startDir)
		if err != nil || !ok {
			return projectConfig{}, "", err
		}
		path = found
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return projectConfig{}, path, err
	}
	return cfg, path, nil
}

// apply copies configured values into opts. useCache reports the [check]
// cache setting, defaulting to true.
func (cfg projectConfig) apply(opts *driver.Options) (useCache bool) {
	if cfg.Check.Jobs > 0 {
		opts.Jobs = cfg.Check.Jobs
	}
	if cfg.Check.MaxDiagnostics > 0 {
		opts.MaxDiagnostics = cfg.Check.MaxDiagnostics
	}
	if cfg.Policy.AllowConstLocalsInLiterals != nil {
		opts.Policy.AllowConstLocalsInLiterals = *cfg.Policy.AllowConstLocalsInLiterals
	}
	opts.Prelude = append(opts.Prelude, cfg.Prelude.Names...)
	return cfg.Check.Cache == nil || *cfg.Check.Cache
}
