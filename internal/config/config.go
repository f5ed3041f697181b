// Package config loads user configuration from the margo config directory
// (~/.config/margo by default) and resolves the paths the rest of the tool
// works under.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/margoproject/margo/pkg/errors"
)

// Filename is the config file name under the config directory.
const Filename = "config.toml"

// EnvConfigDir overrides the config directory location when set.
const EnvConfigDir = "MARGO_CONFIG_DIR"

// Config is the user configuration for margo projects. Every field is
// optional; zero values mean "unset".
type Config struct {
	// PullData is where source .qs data files live (read from).
	PullData string

	// PushMods is the base directory for model outputs (written to).
	PushMods string

	// DefaultBaseline is the default baseline template name.
	DefaultBaseline string

	// UseRenv controls whether generated scripts include renv::init().
	UseRenv bool

	// Editor is the command used to open files for editing.
	Editor string

	// Theme is the colour theme name (catppuccin, basic, plain).
	Theme string
}

// Dir returns the config directory: $MARGO_CONFIG_DIR if set, otherwise
// ~/.config/margo.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapIO("resolve", "home directory", err)
	}
	return filepath.Join(home, ".config", "margo"), nil
}

// Path returns the config file path under dir.
func Path(dir string) string {
	return filepath.Join(dir, Filename)
}

// Load reads the config file under dir. A missing file is a normal state
// and yields a zero config; a present but unparseable file is surfaced as a
// parse error.
func Load(dir string) (*Config, error) {
	path := Path(dir)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return &Config{UseRenv: true}, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return &Config{UseRenv: true}, nil
		}
		return nil, errors.WrapParse("toml", path, err)
	}

	v.SetDefault("defaults.use_renv", true)

	return &Config{
		PullData:        v.GetString("paths.pull_data"),
		PushMods:        v.GetString("paths.push_mods"),
		DefaultBaseline: v.GetString("defaults.baselines"),
		UseRenv:         v.GetBool("defaults.use_renv"),
		Editor:          v.GetString("editor.command"),
		Theme:           v.GetString("theme.theme"),
	}, nil
}

// EnsureDefault writes the default config file if none exists yet and
// reports whether it was created. An existing file is never overwritten.
func EnsureDefault(dir string) (created bool, err error) {
	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.WrapIO("stat", path, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, errors.WrapIO("create", dir, err)
	}
	if err := os.WriteFile(path, []byte(DefaultContent), 0o644); err != nil {
		return false, errors.WrapIO("write", path, err)
	}
	return true, nil
}

// DefaultContent is the commented starter config written on first init.
const DefaultContent = `# margo configuration
# set your paths here, then run: init grf

[paths]
# where your .qs data files are stored (read from)
# pull_data = "/path/to/nzavs-data"

# base directory for model outputs (written to)
# a project subfolder will be created: {push_mods}/2025-exposure-outcomes/
# push_mods = "/path/to/outputs"

[defaults]
# default baseline template (from ~/.config/margo/baselines/)
# baselines = "default"

# include renv::init() in generated R scripts (recommended for reproducibility)
# set to false if you manage R environments differently
use_renv = true

[editor]
# editor for config and template editing
# uses $EDITOR if set, otherwise falls back to nvim
# command = "$EDITOR"

[theme]
# colour theme: "catppuccin" (default), "basic" (16 colours), "plain" (no colours)
# use "basic" or "plain" if colours don't display correctly in your terminal
# theme = "catppuccin"
`
