// Package embedded carries the bundled template set compiled into the
// binary. The content is immutable per build; the reconciliation engine
// compares it against the user's synchronized copies.
package embedded

import (
	"embed"
	"io/fs"
)

//go:embed templates/baselines/*.toml templates/outcomes/*.toml
var templatesFS embed.FS

// Templates returns the bundled template filesystem, rooted at the
// baselines/ and outcomes/ directories.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		// The subtree is embedded at build time; failure here means a
		// broken build, not a runtime condition.
		panic(err)
	}
	return sub
}
