package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/dirlink/pkg/logging"
	"github.com/arthur-debert/dirlink/pkg/style"
	"github.com/arthur-debert/dirlink/pkg/types"
	"gopkg.in/yaml.v3"
)

// Renderer writes command results in one Format
type Renderer struct {
	writer io.Writer
	format Format
}

// NewRenderer creates a Renderer. FormatAuto is resolved against w when it
// is a file and falls back to FormatText otherwise.
func NewRenderer(w io.Writer, format Format) *Renderer {
	if format == FormatAuto {
		format = FormatText
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		}
	}

	logger := logging.GetLogger("output")
	logger.Debug().
		Str("format", format.String()).
		Str("TERM", os.Getenv("TERM")).
		Msg("Creating renderer")

	return &Renderer{writer: w, format: format}
}

// Format returns the resolved output format
func (r *Renderer) Format() Format {
	return r.format
}

// RenderSummary writes one status line per unit followed by the totals
func (r *Renderer) RenderSummary(summary *types.Summary) error {
	if r.format.Structured() {
		return r.structured(summary)
	}

	var b strings.Builder
	for _, result := range summary.Results {
		if r.format == FormatTerminal {
			b.WriteString(style.RenderResult(result))
			b.WriteString("\n")
			if details := style.RenderMergeDetails(result.Merge); details != "" {
				b.WriteString(details)
				b.WriteString("\n")
			}
			continue
		}
		b.WriteString(result.String())
		b.WriteString("\n")
	}

	totals := fmt.Sprintf(MsgSummaryTotals, summary.Linked, summary.Warnings)
	if r.format == FormatTerminal {
		totals = style.MutedStyle.Render(totals)
	}
	b.WriteString(totals)
	b.WriteString("\n")

	if summary.DryRun {
		b.WriteString(MsgDryRunNotice)
		b.WriteString("\n")
	}
	return r.write(b.String())
}

// RenderCopy writes the per-item lines and summary of a copy
func (r *Renderer) RenderCopy(result *types.CopyResult) error {
	if r.format.Structured() {
		return r.structured(result)
	}

	if result.Empty {
		return r.write(fmt.Sprintf(MsgCopyNothing, result.From) + "\n")
	}

	var b strings.Builder
	for _, item := range result.Items {
		b.WriteString(r.copyLine(item))
		b.WriteString("\n")
	}

	b.WriteString("\n" + MsgCopyRule + "\n")
	b.WriteString(MsgCopySummaryTitle + "\n")
	b.WriteString(fmt.Sprintf(MsgCopyCopied, result.Copied) + "\n")
	b.WriteString(fmt.Sprintf(MsgCopySkipped, result.Skipped) + "\n")
	b.WriteString(fmt.Sprintf(MsgCopyComplete, result.From, result.To) + "\n")
	b.WriteString(MsgCopyRule + "\n")
	return r.write(b.String())
}

func (r *Renderer) copyLine(item types.CopyItem) string {
	var line string
	status := style.StatusSuccess

	switch item.Status {
	case types.CopyCopied:
		if item.IsDir {
			line = fmt.Sprintf(MsgCopiedDir, item.Name)
			if item.FilesSkipped > 0 {
				line += fmt.Sprintf(MsgCopiedDirSkipped, item.FilesSkipped)
			}
		} else {
			line = fmt.Sprintf(MsgCopiedFile, item.Name)
		}
	case types.CopyExists:
		line = fmt.Sprintf(MsgCopyExists, item.Name)
		status = style.StatusWarning
	default:
		line = fmt.Sprintf(MsgCopyFailed, item.Name, item.Error)
		status = style.StatusError
	}

	if r.format == FormatTerminal {
		return style.StatusStyle(status).Sprint(line)
	}
	return line
}

// RenderText writes pre-rendered text, such as a generated config file
func (r *Renderer) RenderText(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return r.write(text)
}

// RenderError renders an error message with appropriate styling
func (r *Renderer) RenderError(err error) error {
	if r.format.Structured() {
		return r.structured(map[string]string{"error": err.Error()})
	}
	line := "Error: " + err.Error()
	if r.format == FormatTerminal {
		line = style.ErrorStyle.Render(line)
	}
	return r.write(line + "\n")
}

func (r *Renderer) structured(v interface{}) error {
	if r.format == FormatYAML {
		enc := yaml.NewEncoder(r.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.writer, s)
	return err
}
