package templates

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/margoproject/margo/pkg/errors"
)

const (
	// TemplateExt is the file extension for template files.
	TemplateExt = ".toml"

	// SidecarExt is the extension inserted before TemplateExt for sidecar
	// files written alongside diverged user copies.
	SidecarExt = ".new"

	// examplesDir is the subdirectory holding tool-managed copies of the
	// bundled defaults, per template kind.
	examplesDir = "examples"
)

// Registry resolves logical template identity to bundled content and to
// on-disk paths under the user's config directory.
//
// The bundled set is handed in at construction as a filesystem rooted at
// directories named per Kind.Dir (baselines/, outcomes/); the registry does
// not discover what the current build ships.
type Registry struct {
	bundled   fs.FS
	configDir string
}

// NewRegistry creates a registry over the given bundled template set and
// user config directory.
func NewRegistry(bundled fs.FS, configDir string) *Registry {
	return &Registry{bundled: bundled, configDir: configDir}
}

// ConfigDir returns the user config directory the registry resolves against.
func (r *Registry) ConfigDir() string { return r.configDir }

// Bundled enumerates the templates shipped with the current build, grouped
// by kind then lexicographic by name. The order is stable and drives
// deterministic list output.
func (r *Registry) Bundled() ([]Template, error) {
	var out []Template
	for _, kind := range Kinds() {
		dir := kind.Dir()
		entries, err := fs.ReadDir(r.bundled, dir)
		if err != nil {
			// A build may ship no templates of one kind.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.WrapIO("read", dir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), TemplateExt) {
				continue
			}
			names = append(names, strings.TrimSuffix(e.Name(), TemplateExt))
		}
		sort.Strings(names)
		for _, name := range names {
			content, err := fs.ReadFile(r.bundled, path.Join(dir, name+TemplateExt))
			if err != nil {
				return nil, errors.WrapIO("read", path.Join(dir, name+TemplateExt), err)
			}
			out = append(out, Template{ID: ID{Kind: kind, Name: name}, Content: content})
		}
	}
	return out, nil
}

// BundledContent returns the bundled content for one template.
func (r *Registry) BundledContent(id ID) ([]byte, error) {
	content, err := fs.ReadFile(r.bundled, path.Join(id.Kind.Dir(), id.Name+TemplateExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("bundled template", id.String())
		}
		return nil, errors.WrapIO("read", id.String(), err)
	}
	return content, nil
}

// ExamplePath maps a template identity to the tool-managed copy under
// <config>/<kind>/examples/. The file need not exist.
func (r *Registry) ExamplePath(id ID) string {
	return filepath.Join(r.configDir, id.Kind.Dir(), examplesDir, id.Name+TemplateExt)
}

// SidecarPath maps a template identity to the sidecar location next to its
// example path.
func (r *Registry) SidecarPath(id ID) string {
	return filepath.Join(r.configDir, id.Kind.Dir(), examplesDir, id.Name+SidecarExt+TemplateExt)
}

// UserPath maps a template identity to the hand-owned user template under
// <config>/<kind>/. Reconciliation never writes here; copy does.
func (r *Registry) UserPath(id ID) string {
	return filepath.Join(r.configDir, id.Kind.Dir(), id.Name+TemplateExt)
}

// ReadExample reads the tool-managed copy of a template. Absence is a
// normal state, reported via found=false; any other failure (permission
// denied, unreadable directory) is surfaced, not swallowed.
func (r *Registry) ReadExample(id ID) (content []byte, found bool, err error) {
	return readFile(r.ExamplePath(id))
}

// ReadUser reads a hand-owned user template.
func (r *Registry) ReadUser(id ID) (content []byte, found bool, err error) {
	return readFile(r.UserPath(id))
}

// ListUser enumerates the names of hand-owned user templates of one kind,
// sorted lexicographically. Subdirectories (including examples/) are
// skipped. A missing kind directory yields an empty list.
func (r *Registry) ListUser(kind Kind) ([]string, error) {
	dir := filepath.Join(r.configDir, kind.Dir())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), TemplateExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), TemplateExt))
	}
	sort.Strings(names)
	return names, nil
}

func readFile(path string) ([]byte, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WrapIO("read", path, err)
	}
	return content, true, nil
}
