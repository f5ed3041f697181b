package manifest

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/margoproject/margo/pkg/errors"
)

const (
	// Filename is the manifest file name under the config directory.
	Filename = "manifest.yaml"

	dirMode  = 0o755
	fileMode = 0o644
)

// Store owns the persisted manifest file. No other component reads or
// writes it directly.
type Store struct {
	path string
}

// NewStore creates a store for the manifest file under the given config
// directory.
func NewStore(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, Filename)}
}

// Path returns the manifest file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted manifest. A missing file is a normal first-run
// state and yields an empty manifest, not an error. An unparseable file is
// surfaced as a ManifestError rather than silently discarding sync history.
// Older schemas are migrated in memory and marked dirty; the on-disk file is
// untouched until Save.
func (s *Store) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.WrapIO("read", s.path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewManifestError(s.path, "unparseable manifest", err)
	}
	if err := m.migrate(); err != nil {
		merr := err.(*errors.ManifestError)
		merr.Path = s.path
		return nil, merr
	}
	return &m, nil
}

// Save persists the manifest atomically: the content is written to a
// temporary file in the same directory and renamed over the previous
// manifest, so a crash mid-write leaves the old file intact. Clears the
// dirty flag on success.
func (s *Store) Save(m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.NewManifestError(s.path, "marshaling manifest", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, Filename+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", s.path, err)
	}

	m.dirty = false
	return nil
}
