package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dirlink/pkg/errors"
)

// Root detection modes
const (
	RootModeAll   = "all"
	RootModeFirst = "first"
)

// Config is the full dirlink configuration
type Config struct {
	Roots    Roots        `koanf:"roots" toml:"roots" yaml:"roots"`
	Units    []UnitConfig `koanf:"units" toml:"units" yaml:"units"`
	Conflict Conflict     `koanf:"conflict" toml:"conflict" yaml:"conflict"`
	Compare  Compare      `koanf:"compare" toml:"compare" yaml:"compare"`
	Log      Log          `koanf:"log" toml:"log" yaml:"log"`
}

// Roots lists where the served application may be installed
type Roots struct {
	Candidates []string `koanf:"candidates" toml:"candidates" yaml:"candidates"`
	Mode       string   `koanf:"mode" toml:"mode" yaml:"mode"`
}

// UnitConfig describes one reconciliation unit before root expansion
type UnitConfig struct {
	Name    string   `koanf:"name" toml:"name" yaml:"name"`
	Target  string   `koanf:"target" toml:"target" yaml:"target"`
	Source  string   `koanf:"source" toml:"source" yaml:"source"`
	Subdirs []string `koanf:"subdirs" toml:"subdirs,omitempty" yaml:"subdirs,omitempty"`
}

// Conflict holds the suffixes given to renamed-aside entries
type Conflict struct {
	FileSuffix string `koanf:"file_suffix" toml:"file_suffix" yaml:"file_suffix"`
	DirSuffix  string `koanf:"dir_suffix" toml:"dir_suffix" yaml:"dir_suffix"`
}

// Compare bounds the duplicate check. MaxBytes 0 means unlimited.
type Compare struct {
	MaxBytes int64 `koanf:"max_bytes" toml:"max_bytes" yaml:"max_bytes"`
}

// Log holds logging settings
type Log struct {
	File string `koanf:"file" toml:"file" yaml:"file"`
}

// Validate checks the configuration for values the reconciler cannot use
func (c *Config) Validate() error {
	switch c.Roots.Mode {
	case RootModeAll, RootModeFirst:
	default:
		return errors.Newf(errors.ErrConfigValid, "roots.mode must be %q or %q, got %q", RootModeAll, RootModeFirst, c.Roots.Mode)
	}

	if len(c.Units) == 0 {
		return errors.New(errors.ErrConfigValid, "no units configured")
	}

	seen := make(map[string]bool, len(c.Units))
	for i, u := range c.Units {
		if u.Name == "" {
			return errors.Newf(errors.ErrConfigValid, "units[%d]: name is required", i)
		}
		if seen[u.Name] {
			return errors.Newf(errors.ErrConfigValid, "units[%d]: duplicate name %q", i, u.Name)
		}
		seen[u.Name] = true

		if u.Target == "" {
			return errors.Newf(errors.ErrConfigValid, "unit %q: target is required", u.Name)
		}
		if !filepath.IsAbs(ExpandHome(u.Target)) && len(c.Roots.Candidates) == 0 {
			return errors.Newf(errors.ErrConfigValid, "unit %q: relative target needs roots.candidates", u.Name)
		}
		if !filepath.IsAbs(ExpandHome(u.Source)) {
			return errors.Newf(errors.ErrConfigValid, "unit %q: source must be absolute, got %q", u.Name, u.Source)
		}
		for _, sub := range u.Subdirs {
			if sub == "" || filepath.IsAbs(sub) || strings.HasPrefix(filepath.Clean(sub), "..") {
				return errors.Newf(errors.ErrConfigValid, "unit %q: subdir %q must be relative to the source", u.Name, sub)
			}
		}
	}

	for key, suffix := range map[string]string{
		"conflict.file_suffix": c.Conflict.FileSuffix,
		"conflict.dir_suffix":  c.Conflict.DirSuffix,
	} {
		if suffix == "" || strings.ContainsRune(suffix, filepath.Separator) {
			return errors.Newf(errors.ErrConfigValid, "%s must be a non-empty name suffix, got %q", key, suffix)
		}
	}

	if c.Compare.MaxBytes < 0 {
		return errors.Newf(errors.ErrConfigValid, "compare.max_bytes must not be negative, got %d", c.Compare.MaxBytes)
	}

	return nil
}
