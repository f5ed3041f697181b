package reconcile

import (
	"fmt"
	"strings"

	"github.com/margoproject/margo/pkg/errors"
)

// Outcome pairs one action with the result of executing it. In a dry run
// every outcome is unexecuted and Err is nil.
type Outcome struct {
	Action Action `json:"action" yaml:"action"`
	Err    error  `json:"-" yaml:"-"`

	// Error carries the failure text for serialized output.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Status describes the outcome for rendering.
func (o Outcome) Status() string {
	if o.Err != nil {
		return "failed"
	}
	switch o.Action.Op {
	case OpSkip:
		if o.Action.Diverged {
			return "diverged"
		}
		return "up to date"
	case OpConflict:
		return "conflict"
	default:
		return "ok"
	}
}

// Report is the result of one reconciliation run, consumable by a thin
// renderer. Divergence is informational, not an error; only I/O failures
// make Err non-nil.
type Report struct {
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
	DryRun   bool      `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// Actions returns the action list in execution order.
func (r *Report) Actions() []Action {
	actions := make([]Action, len(r.Outcomes))
	for i, o := range r.Outcomes {
		actions[i] = o.Action
	}
	return actions
}

// Counts tallies outcomes per operation.
func (r *Report) Counts() map[Op]int {
	counts := make(map[Op]int)
	for _, o := range r.Outcomes {
		counts[o.Action.Op]++
	}
	return counts
}

// Diverged returns the outcomes withheld because of local edits.
func (r *Report) Diverged() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Action.Diverged && o.Action.Op == OpSkip {
			out = append(out, o)
		}
	}
	return out
}

// HasChanges reports whether any action wrote (or would write) a file.
func (r *Report) HasChanges() bool {
	for _, o := range r.Outcomes {
		if o.Action.Op.Writes() {
			return true
		}
	}
	return false
}

// Err aggregates the failures of the run, one per failed action, each
// carrying the template identity and action so the run can be retried.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, errors.NewSyncError(o.Action.ID.String(), o.Action.Op.String(), o.Err))
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return errors.New(strings.Join(msgs, "; "))
	}
}

// Summary returns a one-line human summary.
func (r *Report) Summary() string {
	counts := r.Counts()
	parts := []string{}
	for _, op := range []Op{OpCreate, OpUpdate, OpSidecar, OpSkip, OpConflict} {
		if n := counts[op]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, op))
		}
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	s := strings.Join(parts, ", ")
	if r.DryRun {
		s += " (dry run)"
	}
	return s
}
