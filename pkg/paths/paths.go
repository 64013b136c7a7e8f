package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dirlink/pkg/config"
	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// DetectRoots returns the candidate roots that exist as directories. In
// RootModeFirst only the first existing one is returned. When none exist the
// first candidate is returned so its units get created from scratch.
func DetectRoots(fsys types.FS, candidates []string, mode string) ([]string, bool, error) {
	logger := logging.GetLogger("paths")

	if len(candidates) == 0 {
		return nil, false, errors.New(errors.ErrConfigValid, "no candidate roots configured")
	}

	var roots []string
	for _, candidate := range candidates {
		candidate = config.ExpandHome(candidate)
		info, err := fsys.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug().Str("candidate", candidate).Msg("Candidate root not present")
				continue
			}
			return nil, false, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect candidate root %s", candidate).
				WithDetail("path", candidate)
		}
		if !info.IsDir() {
			logger.Warn().Str("candidate", candidate).Msg("Candidate root is not a directory, skipping")
			continue
		}

		logger.Debug().Str("root", candidate).Msg("Found application root")
		roots = append(roots, candidate)
		if mode == config.RootModeFirst {
			break
		}
	}

	if len(roots) == 0 {
		fallback := config.ExpandHome(candidates[0])
		logger.Info().Str("root", fallback).Msg("No candidate root exists, using the first candidate")
		return []string{fallback}, true, nil
	}
	return roots, false, nil
}

// BuildUnits expands unit configs against the detected roots, root by root.
// Units with an absolute target do not depend on a root and are emitted once.
func BuildUnits(roots []string, units []config.UnitConfig) []types.Unit {
	var result []types.Unit
	emittedAbsolute := make(map[string]bool)

	for _, root := range roots {
		for _, u := range units {
			target := config.ExpandHome(u.Target)
			if filepath.IsAbs(target) {
				if emittedAbsolute[u.Name] {
					continue
				}
				emittedAbsolute[u.Name] = true
			} else {
				target = filepath.Join(root, target)
			}

			result = append(result, types.Unit{
				Name:    u.Name,
				Target:  filepath.Clean(target),
				Source:  filepath.Clean(config.ExpandHome(u.Source)),
				Subdirs: u.Subdirs,
			})
		}
	}
	return result
}

// Units detects roots and builds the ordered unit list for a configuration
func Units(fsys types.FS, cfg *config.Config) ([]types.Unit, error) {
	roots, _, err := DetectRoots(fsys, cfg.Roots.Candidates, cfg.Roots.Mode)
	if err != nil {
		return nil, err
	}
	return BuildUnits(roots, cfg.Units), nil
}
