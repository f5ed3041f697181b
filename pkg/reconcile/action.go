package reconcile

import (
	"github.com/margoproject/margo/pkg/templates"
)

// Op is the action the engine computed for one template.
type Op string

// Sync operations.
const (
	// OpCreate writes shipped content to an absent user file and inserts a
	// manifest record.
	OpCreate Op = "create"

	// OpUpdate overwrites a user copy that is unmodified since last sync
	// (or any copy, under force) with the new shipped content.
	OpUpdate Op = "update"

	// OpSkip leaves the file untouched. When Diverged is set the user has
	// local edits and the new default was withheld.
	OpSkip Op = "skip"

	// OpSidecar writes the new shipped content to an alternate path beside
	// a diverged user file, leaving the original untouched.
	OpSidecar Op = "sidecar"

	// OpConflict marks a manifest/registry inconsistency: a tracked
	// template whose bundled counterpart was removed. Reported only, never
	// auto-resolved.
	OpConflict Op = "conflict"
)

// String returns the string representation of the operation.
func (o Op) String() string { return string(o) }

// Writes reports whether the operation performs a file write during apply.
func (o Op) Writes() bool {
	switch o {
	case OpCreate, OpUpdate, OpSidecar:
		return true
	default:
		return false
	}
}

// Action is one computed reconciliation step. Plan and apply share the same
// classification, so a dry run returns exactly the actions a real apply
// would execute.
type Action struct {
	ID       templates.ID `json:"id" yaml:"id"`
	Op       Op           `json:"op" yaml:"op"`
	Path     string       `json:"path,omitempty" yaml:"path,omitempty"`
	Diverged bool         `json:"diverged,omitempty" yaml:"diverged,omitempty"`
	Reason   string       `json:"reason,omitempty" yaml:"reason,omitempty"`
}
