// Package commands provides high-level command implementations for dirlink.
//
// This package contains the command orchestration layer that coordinates
// between the CLI interface and the reconciliation engine.
//
// Each command is implemented in its own subdirectory:
//   - link/      - LinkUnits command
//   - status/    - StatusUnits command
//   - copydata/  - CopyData command
//   - genconfig/ - GenConfig command
//   - internal/  - Shared unit preparation
//
// This file re-exports the command functions so callers need a single import.
package commands

import (
	"context"

	"github.com/arthur-debert/dirlink/pkg/commands/copydata"
	"github.com/arthur-debert/dirlink/pkg/commands/genconfig"
	"github.com/arthur-debert/dirlink/pkg/commands/link"
	"github.com/arthur-debert/dirlink/pkg/commands/status"
	"github.com/arthur-debert/dirlink/pkg/types"
)

// LinkUnits reconciles every configured unit.
type LinkOptions = link.LinkOptions

func LinkUnits(ctx context.Context, opts LinkOptions) (*types.Summary, error) {
	return link.LinkUnits(ctx, opts)
}

// StatusUnits reports each unit's state without changing anything.
type StatusOptions = status.StatusOptions

func StatusUnits(opts StatusOptions) (*types.Summary, error) {
	return status.StatusUnits(opts)
}

// CopyData copies one durable directory into another.
type CopyOptions = copydata.CopyOptions

func CopyData(ctx context.Context, opts CopyOptions) (*types.CopyResult, error) {
	return copydata.CopyData(ctx, opts)
}

// GenConfig renders the configuration.
type GenConfigOptions = genconfig.GenConfigOptions

func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	return genconfig.GenConfig(opts)
}
