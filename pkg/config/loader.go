package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. DIRLINK_ROOTS__MODE
	EnvPrefix = "DIRLINK_"

	// EnvConfigFile names the config file when --config is not given
	EnvConfigFile = "DIRLINK_CONFIG"

	// ConfigFileName is looked up under the XDG config directories
	ConfigFileName = "dirlink/dirlink.toml"
)

// LoadOptions selects the optional layers on top of the embedded defaults
type LoadOptions struct {
	// File is an explicit config file; empty means DIRLINK_CONFIG, then XDG
	File string

	// Overrides are applied last, keyed by dotted path ("compare.max_bytes")
	Overrides map[string]interface{}
}

// Load builds the effective configuration from all layers and validates it
func Load(opts LoadOptions) (*Config, error) {
	k, source, err := loadKoanf(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration").
			WithDetail("file", source)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadKoanf stacks the layers and reports which file, if any, was used
func loadKoanf(opts LoadOptions) (*koanf.Koanf, string, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, "", errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Config file
	path, err := resolveConfigFile(opts.File)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, path, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("file", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, path, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, path, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, path, nil
}

// resolveConfigFile picks the config file. An explicitly named file must
// exist; the XDG fallback is optional.
func resolveConfigFile(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfigFile)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s is not readable", explicit).
				WithDetail("file", explicit)
		}
		return explicit, nil
	}

	if path, err := xdg.SearchConfigFile(ConfigFileName); err == nil {
		return path, nil
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps DIRLINK_COMPARE__MAX_BYTES to compare.max_bytes
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
