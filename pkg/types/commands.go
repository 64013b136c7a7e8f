package types

// CopyStatus is what happened to one top-level entry during a copy
type CopyStatus string

const (
	CopyCopied CopyStatus = "copied"
	CopyExists CopyStatus = "exists"
	CopyFailed CopyStatus = "failed"
)

// CopyItem reports a single top-level entry of a copy
type CopyItem struct {
	Name   string     `json:"name" yaml:"name"`
	IsDir  bool       `json:"is_dir" yaml:"is_dir"`
	Status CopyStatus `json:"status" yaml:"status"`

	// FilesSkipped counts files inside a directory that were already present
	FilesSkipped int    `json:"files_skipped,omitempty" yaml:"files_skipped,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CopyResult summarises copying one durable directory into another
type CopyResult struct {
	From    string     `json:"from" yaml:"from"`
	To      string     `json:"to" yaml:"to"`
	Items   []CopyItem `json:"items" yaml:"items"`
	Copied  int        `json:"copied" yaml:"copied"`
	Skipped int        `json:"skipped" yaml:"skipped"`

	// Empty is set when the origin is missing or has no entries
	Empty bool `json:"empty" yaml:"empty"`
}

// GenConfigResult holds a rendered configuration and where it was written
type GenConfigResult struct {
	Content string `json:"content" yaml:"content"`
	Written string `json:"written,omitempty" yaml:"written,omitempty"`
}
