package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/dirlink/pkg/config"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/filesystem"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// GenConfigOptions holds options for the genconfig command
type GenConfigOptions struct {
	// Config is the effective configuration to render
	Config *config.Config
	// Defaults renders the embedded defaults file, comments included, instead
	Defaults bool
	// Write is a file to write the rendered configuration to. Existing files
	// are left untouched.
	Write string
	FS    types.FS
}

// GenConfig renders the configuration as TOML and optionally writes it
func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	var content string
	if opts.Defaults {
		content = config.DefaultsContent()
	} else {
		if opts.Config == nil {
			return nil, errors.New(errors.ErrInvalidInput, "configuration is required")
		}
		data, err := opts.Config.ToTOML()
		if err != nil {
			return nil, err
		}
		content = string(data)
	}

	result := &types.GenConfigResult{Content: content}

	// If not writing, just return the content
	if opts.Write == "" {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	if _, err := fsys.Lstat(opts.Write); err == nil {
		logger.Warn().Str("path", opts.Write).Msg("Config file already exists, skipping")
		return result, nil
	}

	dir := filepath.Dir(opts.Write)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir).
			WithDetail("path", dir)
	}
	if err := fsys.WriteFile(opts.Write, []byte(content), 0644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to write config to %s", opts.Write).
			WithDetail("path", opts.Write)
	}

	logger.Info().Str("path", opts.Write).Msg("Written config file")
	result.Written = opts.Write
	return result, nil
}
