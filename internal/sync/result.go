package sync

import (
	"fmt"
	"strings"
)

// Action represents the outcome for a single emoji during a run.
type Action string

const (
	// ActionDownloaded indicates an image was downloaded into the archive.
	ActionDownloaded Action = "downloaded"

	// ActionUploaded indicates an archive entry was uploaded to the workspace.
	ActionUploaded Action = "uploaded"

	// ActionSkippedAlias indicates an alias-backed record was skipped on
	// export because it carries no image of its own.
	ActionSkippedAlias Action = "skipped-alias"

	// ActionConflict indicates an import entry was skipped because its
	// name is reserved by the Unicode emoji standard.
	ActionConflict Action = "conflict"

	// ActionFailed indicates an error occurred processing the emoji.
	ActionFailed Action = "failed"
)

// Operation identifies which flow produced a Result.
type Operation string

const (
	// OpExport is the remote-to-archive flow.
	OpExport Operation = "export"
	// OpImport is the archive-to-remote flow.
	OpImport Operation = "import"
)

// ItemResult records the outcome for one emoji.
type ItemResult struct {
	// Name is the emoji short code.
	Name string

	// Action is the outcome.
	Action Action

	// Message provides additional context, e.g. the alias target or the
	// conflict reason.
	Message string

	// Error holds the failure when Action is ActionFailed.
	Error error
}

// Success reports whether the item was processed without failure.
// Conflicts and skipped aliases count as successful: they are reported
// skips, not faults.
func (ir ItemResult) Success() bool {
	return ir.Action != ActionFailed
}

// Result contains the complete outcome of one export or import run.
type Result struct {
	// Operation is the flow that ran.
	Operation Operation

	// Directory is the archive directory the run used.
	Directory string

	// Items holds the per-emoji outcomes in processing order.
	Items []ItemResult
}

func (r *Result) add(item ItemResult) {
	r.Items = append(r.Items, item)
}

// Downloaded returns items whose image was archived.
func (r *Result) Downloaded() []ItemResult {
	return r.filterByAction(ActionDownloaded)
}

// Uploaded returns items that were uploaded to the workspace.
func (r *Result) Uploaded() []ItemResult {
	return r.filterByAction(ActionUploaded)
}

// SkippedAliases returns alias records skipped during export.
func (r *Result) SkippedAliases() []ItemResult {
	return r.filterByAction(ActionSkippedAlias)
}

// Conflicts returns import entries skipped for reserved-name collisions.
func (r *Result) Conflicts() []ItemResult {
	return r.filterByAction(ActionConflict)
}

// Failed returns items that could not be processed.
func (r *Result) Failed() []ItemResult {
	return r.filterByAction(ActionFailed)
}

func (r *Result) filterByAction(action Action) []ItemResult {
	var items []ItemResult
	for _, item := range r.Items {
		if item.Action == action {
			items = append(items, item)
		}
	}
	return items
}

// Summary returns a one-line human-readable summary of the run.
func (r *Result) Summary() string {
	parts := []string{fmt.Sprintf("%d processed", len(r.Items))}
	if n := len(r.Downloaded()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d downloaded", n))
	}
	if n := len(r.Uploaded()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d uploaded", n))
	}
	if n := len(r.SkippedAliases()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d aliases skipped", n))
	}
	if n := len(r.Conflicts()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", n))
	}
	if n := len(r.Failed()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	return fmt.Sprintf("%s: %s", r.Operation, strings.Join(parts, ", "))
}
