// Package paths resolves the filesystem locations Nightfall works with.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds every location the manager reads or writes. Tests construct
// one by hand pointing at temp directories; the app uses Default().
type Paths struct {
	PluginRoot   string // plugin bundles, one directory per plugin
	ConfigRoot   string // user config tree delivered files land under
	TargetConfig string // shared matugen config the section engine edits
	CacheFile    string // install-state cache
	SettingsFile string // user settings
}

// Default resolves the standard XDG locations. NIGHTFALL_DIR overrides the
// plugin root, which is how the installer script points a checkout at itself.
func Default() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
	}

	configRoot := os.Getenv("XDG_CONFIG_HOME")
	if configRoot == "" {
		configRoot = filepath.Join(home, ".config")
	}

	cacheRoot := os.Getenv("XDG_CACHE_HOME")
	if cacheRoot == "" {
		cacheRoot = filepath.Join(home, ".cache")
	}

	pluginRoot := os.Getenv("NIGHTFALL_DIR")
	if pluginRoot == "" {
		pluginRoot = filepath.Join(configRoot, "nightfall", "plugins")
	}

	return Paths{
		PluginRoot:   pluginRoot,
		ConfigRoot:   configRoot,
		TargetConfig: filepath.Join(configRoot, "matugen", "config.toml"),
		CacheFile:    filepath.Join(cacheRoot, "nightfall", "installed"),
		SettingsFile: filepath.Join(configRoot, "nightfall", "settings.json"),
	}, nil
}

// Validate checks the locations a session cannot run without.
func (p Paths) Validate() error {
	info, err := os.Stat(p.PluginRoot)
	if err != nil {
		return fmt.Errorf("plugin directory %s not found: %w", p.PluginRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("plugin directory %s is not a directory", p.PluginRoot)
	}
	return nil
}
