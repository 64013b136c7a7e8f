package output

// Text output lines
const (
	MsgSummaryTotals = "%d linked, %d warnings"
	MsgDryRunNotice  = "DRY RUN MODE - No changes were made"

	MsgCopiedDir        = "Copied directory: %s"
	MsgCopiedDirSkipped = " (%d existing files skipped)"
	MsgCopiedFile       = "Copied file: %s"
	MsgCopyExists       = "Item '%s' already exists in destination. Skipping."
	MsgCopyFailed       = "Could not copy '%s'. Reason: %s"
	MsgCopyNothing      = "Origin '%s' is empty or does not exist. Nothing to copy."
	MsgCopyRule         = "=============================="
	MsgCopySummaryTitle = "Copy operation summary:"
	MsgCopyCopied       = "Successfully copied: %d items"
	MsgCopySkipped      = "Skipped/Failed: %d items"
	MsgCopyComplete     = "Data copy from '%s' to '%s' is complete."
)
