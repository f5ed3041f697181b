// Package manifest persists the sync state of tool-managed templates: for
// each template the tool has materialized, the fingerprint of the bundled
// default it shipped and the fingerprint of the content actually written to
// disk at last sync.
//
// The manifest is the single source of truth for "did the user touch this
// file since we last wrote it". It is loaded once per invocation, mutated
// in memory by the reconciliation apply step, and saved once, atomically.
package manifest

import (
	"github.com/margoproject/margo/pkg/errors"
	"github.com/margoproject/margo/pkg/fingerprint"
	"github.com/margoproject/margo/pkg/templates"
)

// SchemaVersion is the current manifest schema version.
const SchemaVersion = 1

// Record tracks the sync state of one template. A record exists only for
// templates this tool has materialized; hand-created user templates are
// untracked and never touched by reconciliation.
type Record struct {
	// Shipped is the fingerprint of the bundled default at the tool
	// version that last touched this record.
	Shipped fingerprint.Fingerprint `yaml:"shipped"`

	// Synced is the fingerprint of the content actually written to the
	// user's file at last sync. Equal to Shipped unless the last delivery
	// went to a sidecar.
	Synced fingerprint.Fingerprint `yaml:"synced"`

	// ToolVersion is the version of the tool build that produced Shipped.
	ToolVersion string `yaml:"tool_version,omitempty"`

	// Sidecar is the sidecar filename when the last delivery was written
	// alongside a diverged user copy instead of over it.
	Sidecar string `yaml:"sidecar,omitempty"`
}

// Manifest maps template identity to tracked sync state.
type Manifest struct {
	Version int               `yaml:"version"`
	Records map[string]Record `yaml:"records"`

	// dirty marks in-memory changes (including schema migration) that have
	// not been saved. Migration never mutates the on-disk file; a read-only
	// command that loads an old manifest has no side effect.
	dirty bool
}

// New returns an empty manifest at the current schema version.
func New() *Manifest {
	return &Manifest{
		Version: SchemaVersion,
		Records: make(map[string]Record),
	}
}

// Get returns the record for a template, if tracked.
func (m *Manifest) Get(id templates.ID) (Record, bool) {
	rec, ok := m.Records[id.String()]
	return rec, ok
}

// Set inserts or replaces the record for a template and marks the manifest
// dirty.
func (m *Manifest) Set(id templates.ID, rec Record) {
	if m.Records == nil {
		m.Records = make(map[string]Record)
	}
	m.Records[id.String()] = rec
	m.dirty = true
}

// Delete removes the record for a template and marks the manifest dirty.
func (m *Manifest) Delete(id templates.ID) {
	if _, ok := m.Records[id.String()]; ok {
		delete(m.Records, id.String())
		m.dirty = true
	}
}

// IDs returns the identities of all tracked templates.
func (m *Manifest) IDs() ([]templates.ID, error) {
	ids := make([]templates.ID, 0, len(m.Records))
	for key := range m.Records {
		id, err := templates.ParseID(key)
		if err != nil {
			return nil, errors.NewManifestError("", "invalid record key "+key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Dirty reports whether the manifest has unsaved changes.
func (m *Manifest) Dirty() bool { return m.dirty }

// migrate upgrades an older schema in memory and marks the manifest dirty
// for re-save on the next explicit Save. Version 0 covers manifests written
// before the version field existed; the record shape is unchanged.
func (m *Manifest) migrate() error {
	switch {
	case m.Version == SchemaVersion:
	case m.Version >= 0 && m.Version < SchemaVersion:
		m.Version = SchemaVersion
		m.dirty = true
	default:
		return errors.NewManifestError("",
			"unsupported manifest schema version (written by a newer tool?)", nil)
	}
	if m.Records == nil {
		m.Records = make(map[string]Record)
	}
	return nil
}
