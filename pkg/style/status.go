package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dirlink/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Status is the display category of a unit or copied item
type Status string

const (
	StatusSuccess Status = "success" // Linked, or copied
	StatusWarning Status = "warning" // Left intact, or skipped
	StatusError   Status = "error"   // Copy of an item failed
	StatusQueue   Status = "queue"   // Would change on the next link run
)

// StatusFor maps a reconciliation outcome onto a display status
func StatusFor(outcome types.Outcome) Status {
	switch outcome {
	case types.OutcomeLinked:
		return StatusSuccess
	case types.OutcomeWarning:
		return StatusWarning
	default:
		return StatusQueue
	}
}

// StatusStyle returns the pterm style used for status badges
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgCyan)
	}
}

// Indicator returns the glyph shown in front of a unit line
func Indicator(status Status) string {
	switch status {
	case StatusSuccess:
		return SuccessIndicator
	case StatusWarning:
		return WarningIndicator
	case StatusError:
		return ErrorIndicator
	default:
		return PendingIndicator
	}
}

// RenderResult renders one unit line with colors:
//
//	✓ models: /root/ComfyUI/models -> /models: already linked
//
// The text without styling is exactly Result.String().
func RenderResult(r types.Result) string {
	status := StatusFor(r.Outcome)

	message := r.Message
	switch status {
	case StatusSuccess:
		message = SuccessStyle.Render(message)
	case StatusWarning:
		message = WarningStyle.Render(message)
	default:
		message = InfoStyle.Render(message)
	}

	return fmt.Sprintf("%s %s: %s -> %s: %s",
		Indicator(status),
		UnitStyle.Render(r.Unit.Label()),
		TargetStyle.Render(r.Unit.Target),
		SourceStyle.Render(r.Unit.Source),
		message,
	)
}

// RenderMergeDetails lists what a merge did, one indented line per fact.
// Empty merges render as "".
func RenderMergeDetails(stats types.MergeStats) string {
	var lines []string
	if stats.Moved+stats.Merged+stats.Duplicates > 0 {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("moved %d, merged %d directories, removed %d duplicates",
			stats.Moved, stats.Merged, stats.Duplicates)))
	}
	for _, c := range stats.Conflicts {
		lines = append(lines, WarningStyle.Render("kept conflict: ")+c)
	}
	for _, l := range stats.Leftovers {
		lines = append(lines, WarningStyle.Render("left in place: ")+l)
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, indentAll(lines, 2)...)
}

func indentAll(lines []string, level int) []string {
	pad := strings.Repeat("  ", level)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = pad + line
	}
	return out
}
