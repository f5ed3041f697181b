package cmd

import (
	"github.com/margoproject/margo"
)

// newMargo builds a library instance honoring the global flags.
func newMargo() (margo.Margo, error) {
	opts := []margo.Option{margo.WithToolVersion(Version)}
	if dir := resolvedConfigDir(); dir != "" {
		opts = append(opts, margo.WithConfigDir(dir))
	}
	return margo.New(opts...)
}
