// Package margo scaffolds configuration-driven R-script projects from
// bundled templates and keeps the user's copies of those templates
// synchronized across tool upgrades without losing edits.
//
// The package wires together the template registry, the persisted sync
// manifest, and the reconciliation engine; the CLI under cmd/margo is a
// thin renderer over this facade.
package margo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/margoproject/margo/internal/config"
	"github.com/margoproject/margo/internal/embedded"
	"github.com/margoproject/margo/pkg/errors"
	"github.com/margoproject/margo/pkg/manifest"
	"github.com/margoproject/margo/pkg/reconcile"
	"github.com/margoproject/margo/pkg/templates"
)

// Margo manages the template workspace under the user's config directory.
type Margo interface {
	// ConfigDir returns the config directory this instance works under.
	ConfigDir() string

	// Config returns the user configuration loaded at construction.
	Config() *config.Config

	// Plan computes the reconciliation action list without touching disk.
	Plan(opts ...reconcile.Option) ([]reconcile.Action, error)

	// Apply executes the reconciliation and returns the outcome report.
	Apply(opts ...reconcile.Option) (*reconcile.Report, error)

	// InitWorkspace creates the config file if absent and materializes the
	// bundled templates.
	InitWorkspace() (*InitResult, error)

	// List enumerates the user's hand-owned templates, grouped by kind
	// then name.
	List() ([]templates.ID, error)

	// Examples enumerates the bundled templates with their sync status.
	Examples() ([]ExampleStatus, error)

	// CopyExample copies a managed example into the user template
	// directory and returns the destination path. The destination is
	// untracked: the user owns it from then on.
	CopyExample(id templates.ID) (string, error)
}

// InitResult reports what InitWorkspace did.
type InitResult struct {
	ConfigDir     string            `json:"config_dir" yaml:"config_dir"`
	ConfigCreated bool              `json:"config_created" yaml:"config_created"`
	Report        *reconcile.Report `json:"report" yaml:"report"`
}

// ExampleStatus describes one bundled template's relationship to the
// user's synchronized copy.
type ExampleStatus struct {
	ID     templates.ID `json:"id" yaml:"id"`
	Status string       `json:"status" yaml:"status"`
	Path   string       `json:"path" yaml:"path"`
}

// Example statuses.
const (
	StatusNew       = "new"       // not yet materialized
	StatusSynced    = "synced"    // matches the last synchronized content
	StatusOutdated  = "outdated"  // a newer default is available
	StatusDiverged  = "diverged"  // user edits present, new default withheld
	StatusUntracked = "untracked" // hand-authored file, never managed
	StatusConflict  = "conflict"  // tracked but no longer bundled
)

// margo is the internal implementation of the Margo interface.
type margo struct {
	config   *config.Config
	registry *templates.Registry
	engine   *reconcile.Engine
	dir      string
	version  string
}

// New creates a Margo instance with the given options.
func New(opts ...Option) (Margo, error) {
	c := &options{bundled: embedded.Templates(), toolVersion: "dev"}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	dir := c.configDir
	if dir == "" {
		var err error
		dir, err = config.Dir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	registry := templates.NewRegistry(c.bundled, dir)
	engine := reconcile.New(registry, manifest.NewStore(dir))

	return &margo{
		config:   cfg,
		registry: registry,
		engine:   engine,
		dir:      dir,
		version:  c.toolVersion,
	}, nil
}

// ConfigDir returns the config directory this instance works under.
func (m *margo) ConfigDir() string { return m.dir }

// Config returns the user configuration loaded at construction.
func (m *margo) Config() *config.Config { return m.config }

// Plan computes the reconciliation action list without touching disk.
func (m *margo) Plan(opts ...reconcile.Option) ([]reconcile.Action, error) {
	return m.engine.Plan(m.runOptions(opts)...)
}

// Apply executes the reconciliation and returns the outcome report.
func (m *margo) Apply(opts ...reconcile.Option) (*reconcile.Report, error) {
	return m.engine.Apply(m.runOptions(opts)...)
}

// InitWorkspace creates the config file if absent and materializes the
// bundled templates via an ordinary apply.
func (m *margo) InitWorkspace() (*InitResult, error) {
	created, err := config.EnsureDefault(m.dir)
	if err != nil {
		return nil, err
	}
	report, err := m.Apply()
	if err != nil {
		return nil, err
	}
	return &InitResult{
		ConfigDir:     m.dir,
		ConfigCreated: created,
		Report:        report,
	}, nil
}

// List enumerates the user's hand-owned templates.
func (m *margo) List() ([]templates.ID, error) {
	var ids []templates.ID
	for _, kind := range templates.Kinds() {
		names, err := m.registry.ListUser(kind)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			ids = append(ids, templates.ID{Kind: kind, Name: name})
		}
	}
	return ids, nil
}

// Examples enumerates the bundled templates with their sync status,
// derived from a dry-run plan so a listing can never have a side effect.
func (m *margo) Examples() ([]ExampleStatus, error) {
	bundled, err := m.registry.Bundled()
	if err != nil {
		return nil, err
	}
	actions, err := m.Plan(reconcile.WithDryRun(true))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]reconcile.Action, len(actions))
	for _, action := range actions {
		byID[action.ID.String()] = action
	}

	var out []ExampleStatus
	for _, t := range bundled {
		status := ExampleStatus{ID: t.ID, Path: m.registry.ExamplePath(t.ID)}
		action, ok := byID[t.ID.String()]
		if !ok {
			// No action for a bundled template means a hand-authored file
			// occupies its identity.
			status.Status = StatusUntracked
		} else {
			status.Status = statusFor(action)
		}
		out = append(out, status)
	}

	// Conflicts reference templates that are no longer bundled; append so
	// the caller sees them.
	for _, action := range actions {
		if action.Op == reconcile.OpConflict {
			out = append(out, ExampleStatus{
				ID:     action.ID,
				Status: StatusConflict,
				Path:   action.Path,
			})
		}
	}
	return out, nil
}

// statusFor maps a planned action to a listing status.
func statusFor(action reconcile.Action) string {
	switch action.Op {
	case reconcile.OpCreate:
		return StatusNew
	case reconcile.OpUpdate, reconcile.OpSidecar:
		return StatusOutdated
	case reconcile.OpConflict:
		return StatusConflict
	default:
		if action.Diverged {
			return StatusDiverged
		}
		return StatusSynced
	}
}

// CopyExample copies a managed example into the user template directory.
func (m *margo) CopyExample(id templates.ID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}

	content, found, err := m.registry.ReadExample(id)
	if err != nil {
		return "", err
	}
	if !found {
		// Not materialized yet; fall back to the bundled default so copy
		// works before init has run.
		content, err = m.registry.BundledContent(id)
		if err != nil {
			return "", err
		}
	}

	dest := m.registry.UserPath(id)
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("user template %s %w at %s", id, errors.ErrAlreadyExists, dest)
	} else if !os.IsNotExist(err) {
		return "", errors.WrapIO("stat", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", errors.WrapIO("write", dest, err)
	}
	return dest, nil
}

// runOptions prefixes caller options with instance-level settings.
func (m *margo) runOptions(opts []reconcile.Option) []reconcile.Option {
	return append([]reconcile.Option{reconcile.WithToolVersion(m.version)}, opts...)
}
