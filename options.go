package margo

import (
	"io/fs"
)

// Option is a function that configures a Margo instance.
type Option func(*options) error

// options holds construction-time configuration for a Margo instance.
type options struct {
	configDir   string
	bundled     fs.FS
	toolVersion string
}

// WithConfigDir overrides the config directory (default: $MARGO_CONFIG_DIR
// or ~/.config/margo).
func WithConfigDir(dir string) Option {
	return func(c *options) error {
		c.configDir = dir
		return nil
	}
}

// WithBundled overrides the bundled template set. The filesystem must be
// rooted at the per-kind directories (baselines/, outcomes/). Intended for
// tests and embedding callers.
func WithBundled(bundled fs.FS) Option {
	return func(c *options) error {
		c.bundled = bundled
		return nil
	}
}

// WithToolVersion sets the version string recorded on manifest records
// written by this instance.
func WithToolVersion(version string) Option {
	return func(c *options) error {
		c.toolVersion = version
		return nil
	}
}
