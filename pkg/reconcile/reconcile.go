// Package reconcile computes and applies the actions needed to bring the
// user's copies of bundled templates in line with the current build without
// destroying user edits.
//
// Classification is a pure function of the bundled set, the manifest, and
// the live user-directory state. Plan and apply share it, so dry-run output
// is guaranteed accurate. Apply is idempotent: re-running after a partial
// failure reclassifies correctly because failed writes leave both the file
// and its record unchanged.
package reconcile

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/margoproject/margo/pkg/errors"
	"github.com/margoproject/margo/pkg/fingerprint"
	"github.com/margoproject/margo/pkg/logging"
	"github.com/margoproject/margo/pkg/manifest"
	"github.com/margoproject/margo/pkg/templates"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Engine reconciles the bundled template set against the manifest and the
// user's on-disk copies.
type Engine struct {
	registry *templates.Registry
	store    *manifest.Store
}

// New creates an engine over a registry and manifest store.
func New(registry *templates.Registry, store *manifest.Store) *Engine {
	return &Engine{registry: registry, store: store}
}

// Plan computes the ordered action list without performing any file write
// or manifest mutation.
func (e *Engine) Plan(opts ...Option) ([]Action, error) {
	options := Defaults().Apply(opts...)

	bundled, err := e.registry.Bundled()
	if err != nil {
		return nil, err
	}
	m, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	return e.classify(bundled, m, options)
}

// Apply executes the computed actions in order and updates the manifest
// record for each successful write. The manifest is saved once, at the end,
// so records are only persisted for writes that succeeded. Individual write
// failures do not roll back prior writes (filesystem operations are not
// transactional across files); they are surfaced in the report with the
// template identity and action attached, and the run is safe to retry.
func (e *Engine) Apply(opts ...Option) (*Report, error) {
	options := Defaults().Apply(opts...)

	bundled, err := e.registry.Bundled()
	if err != nil {
		return nil, err
	}
	m, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	actions, err := e.classify(bundled, m, options)
	if err != nil {
		return nil, err
	}

	report := &Report{DryRun: options.DryRun}
	if options.DryRun {
		for _, action := range actions {
			report.Outcomes = append(report.Outcomes, Outcome{Action: action})
		}
		return report, nil
	}

	content := make(map[templates.ID][]byte, len(bundled))
	for _, t := range bundled {
		content[t.ID] = t.Content
	}

	for _, action := range actions {
		outcome := Outcome{Action: action}
		if action.Op == OpConflict && options.Prune {
			m.Delete(action.ID)
			outcome.Action.Reason = "stale tracking record removed"
			logging.Info().
				Str("template", action.ID.String()).
				Msg("pruned tracking record for template no longer bundled")
		}
		if action.Op.Writes() {
			if err := e.execute(action, content[action.ID], m, options); err != nil {
				outcome.Err = err
				outcome.Error = err.Error()
				logging.Error().
					Str("template", action.ID.String()).
					Str("op", action.Op.String()).
					Err(err).
					Msg("sync action failed")
			} else {
				logging.Debug().
					Str("template", action.ID.String()).
					Str("op", action.Op.String()).
					Str("path", action.Path).
					Msg("sync action applied")
			}
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if m.Dirty() {
		if err := e.store.Save(m); err != nil {
			return report, err
		}
	}
	return report, nil
}

// execute performs one file write and updates the manifest record in
// memory. The record is only touched when the write succeeded.
func (e *Engine) execute(action Action, shipped []byte, m *manifest.Manifest, options *Options) error {
	if err := os.MkdirAll(filepath.Dir(action.Path), dirMode); err != nil {
		return errors.WrapIO("create", filepath.Dir(action.Path), err)
	}
	if err := os.WriteFile(action.Path, shipped, fileMode); err != nil {
		return errors.WrapIO("write", action.Path, err)
	}

	fp := fingerprint.Of(shipped)
	rec := manifest.Record{
		Shipped:     fp,
		Synced:      fp,
		ToolVersion: options.ToolVersion,
	}
	if action.Op == OpSidecar {
		rec.Sidecar = filepath.Base(action.Path)
	}
	m.Set(action.ID, rec)
	return nil
}

// classify walks the union of the bundled set and the tracked set and emits
// one action per template that needs attention. Bundled templates come
// first, in registry order (kind, then name); orphaned manifest records
// follow, sorted, as conflicts.
func (e *Engine) classify(bundled []templates.Template, m *manifest.Manifest, options *Options) ([]Action, error) {
	var actions []Action

	seen := make(map[string]bool, len(bundled))
	for _, t := range bundled {
		seen[t.ID.String()] = true
		action, emit, err := e.classifyOne(t, m, options)
		if err != nil {
			return nil, err
		}
		if emit {
			actions = append(actions, action)
		}
	}

	// Tracked templates whose bundled counterpart was removed: reported,
	// never auto-resolved, since guessing intent risks deleting tracking
	// history.
	ids, err := m.IDs()
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		if seen[id.String()] {
			continue
		}
		actions = append(actions, Action{
			ID:     id,
			Op:     OpConflict,
			Path:   e.registry.ExamplePath(id),
			Reason: "tracked template no longer bundled",
		})
	}

	return actions, nil
}

// classifyOne decides the action for a single bundled template.
func (e *Engine) classifyOne(t templates.Template, m *manifest.Manifest, options *Options) (Action, bool, error) {
	shipped := fingerprint.Of(t.Content)
	path := e.registry.ExamplePath(t.ID)

	user, found, err := e.registry.ReadExample(t.ID)
	if err != nil {
		return Action{}, false, err
	}

	rec, tracked := m.Get(t.ID)
	if !tracked {
		if found {
			// Hand-authored before this tool ever tracked the identity.
			// Never adopted, never overwritten.
			logging.Debug().
				Str("template", t.ID.String()).
				Msg("untracked user file present, leaving untouched")
			return Action{}, false, nil
		}
		return Action{ID: t.ID, Op: OpCreate, Path: path}, true, nil
	}

	if shipped == rec.Shipped {
		// Bundled content unchanged since last sync; nothing to deliver
		// regardless of user edits.
		return Action{ID: t.ID, Op: OpSkip, Path: path, Reason: "bundled content unchanged"}, true, nil
	}

	if !found {
		return Action{ID: t.ID, Op: OpCreate, Path: path, Reason: "re-materializing removed file"}, true, nil
	}

	if fingerprint.Of(user) == rec.Synced {
		return Action{ID: t.ID, Op: OpUpdate, Path: path, Reason: "unmodified since last sync"}, true, nil
	}

	// User modified the file since last sync.
	switch {
	case options.Force:
		return Action{ID: t.ID, Op: OpUpdate, Path: path, Diverged: true, Reason: "overwriting local edits (forced)"}, true, nil
	case options.Sidecar:
		return Action{ID: t.ID, Op: OpSidecar, Path: e.registry.SidecarPath(t.ID), Diverged: true, Reason: "delivering new default alongside local edits"}, true, nil
	default:
		return Action{ID: t.ID, Op: OpSkip, Path: path, Diverged: true, Reason: "local edits present, new default withheld"}, true, nil
	}
}
