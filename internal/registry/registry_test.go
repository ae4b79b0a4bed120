package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dim-ghub/Nightfall/internal/cache"
	"github.com/dim-ghub/Nightfall/internal/paths"
	"github.com/dim-ghub/Nightfall/internal/plugin"
)

func newEnv(t *testing.T) paths.Paths {
	t.Helper()
	root := t.TempDir()
	p := paths.Paths{
		PluginRoot:   filepath.Join(root, "plugins"),
		ConfigRoot:   filepath.Join(root, "config"),
		TargetConfig: filepath.Join(root, "config", "matugen", "config.toml"),
		CacheFile:    filepath.Join(root, "cache", "installed"),
	}
	require.NoError(t, os.MkdirAll(p.PluginRoot, 0755))
	require.NoError(t, os.MkdirAll(p.ConfigRoot, 0755))
	return p
}

func newRegistry(t *testing.T, p paths.Paths) *Registry {
	t.Helper()
	c, err := cache.Open(p.CacheFile)
	require.NoError(t, err)
	return New(p, c)
}

func writePlugin(t *testing.T, p paths.Paths, name, info string) string {
	t.Helper()
	dir := filepath.Join(p.PluginRoot, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, plugin.InfoFile), []byte(info), 0644))
	return dir
}

func deliverFile(t *testing.T, pluginDir, rel, content string) {
	t.Helper()
	path := filepath.Join(pluginDir, plugin.DeliveredDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeTarget(t *testing.T, p paths.Paths, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p.TargetConfig), 0755))
	require.NoError(t, os.WriteFile(p.TargetConfig, []byte(content), 0644))
}

func TestDiscoverSkipsNonPluginsAndSorts(t *testing.T) {
	p := newEnv(t)
	writePlugin(t, p, "zephyr", "# Zephyr\n")
	writePlugin(t, p, "aurora", "# Aurora\n")
	writePlugin(t, p, "tools", "# Not a plugin\n")
	writePlugin(t, p, ".git", "# Not a plugin\n")
	require.NoError(t, os.MkdirAll(filepath.Join(p.PluginRoot, "noinfo"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.PluginRoot, "stray.txt"), []byte("x"), 0644))

	plugins, err := newRegistry(t, p).Discover()
	require.NoError(t, err)

	names := make([]string, len(plugins))
	for i, pl := range plugins {
		names[i] = pl.Name
	}
	assert.Equal(t, []string{"aurora", "zephyr"}, names)
}

func TestDiscoverSkipsBrokenInfo(t *testing.T) {
	p := newEnv(t)
	writePlugin(t, p, "aurora", "# Aurora\n")
	writePlugin(t, p, "broken", "\n\n") // no title line

	plugins, err := newRegistry(t, p).Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.Equal(t, "aurora", plugins[0].Name)
}

func TestCacheEntryWinsOverFilesystem(t *testing.T) {
	p := newEnv(t)
	dir := writePlugin(t, p, "ghost", "# Ghost\n")
	deliverFile(t, dir, "ghost-style/style.css", "body {}")
	// Nothing under the config root, but the cache says installed.

	reg := newRegistry(t, p)
	require.NoError(t, reg.Cache().Add("ghost"))

	plugins, err := reg.Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.True(t, plugins[0].Installed)
}

func TestFilesystemFallbackSelfHeals(t *testing.T) {
	p := newEnv(t)
	dir := writePlugin(t, p, "aurora", "# Aurora\n")
	deliverFile(t, dir, "aurora-style/style.css", "body {}")
	require.NoError(t, os.MkdirAll(filepath.Join(p.ConfigRoot, "aurora-style"), 0755))

	reg := newRegistry(t, p)
	plugins, err := reg.Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.True(t, plugins[0].Installed)

	// The positive classification was written back.
	assert.True(t, reg.Cache().Contains("aurora"))
}

func TestMissingDeliveredEntryMeansNotInstalled(t *testing.T) {
	p := newEnv(t)
	dir := writePlugin(t, p, "aurora", "# Aurora\n")
	deliverFile(t, dir, "aurora-style/style.css", "body {}")
	deliverFile(t, dir, "aurora-extra/extra.css", "a {}")
	require.NoError(t, os.MkdirAll(filepath.Join(p.ConfigRoot, "aurora-style"), 0755))
	// aurora-extra is absent: one miss fails the whole classification.

	reg := newRegistry(t, p)
	plugins, err := reg.Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.False(t, plugins[0].Installed)
	assert.False(t, reg.Cache().Contains("aurora"))
}

func TestEmptyDeliveredDirMeansNotInstalled(t *testing.T) {
	p := newEnv(t)
	dir := writePlugin(t, p, "aurora", "# Aurora\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, plugin.DeliveredDir), 0755))

	plugins, err := newRegistry(t, p).Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.False(t, plugins[0].Installed)
}

func TestMatugenFragmentClassification(t *testing.T) {
	p := newEnv(t)
	dir := writePlugin(t, p, "aurora", "# Aurora\n")
	deliverFile(t, dir, "matugen/aurora.toml", "[templates.aurora]\ninput_path = './aurora'\n")

	// Section absent: not installed.
	plugins, err := newRegistry(t, p).Discover()
	require.NoError(t, err)
	assert.False(t, plugins[0].Installed)

	// Section present but commented out: installed, toggled off.
	writeTarget(t, p, "# [templates.aurora]\n# input_path = './aurora'\n")
	plugins, err = newRegistry(t, p).Discover()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.True(t, plugins[0].Installed)
	assert.Equal(t, "[templates.aurora]", plugins[0].SectionTitle)
	assert.False(t, plugins[0].SectionEnabled)

	// Section active: installed, toggled on.
	writeTarget(t, p, "[templates.aurora]\ninput_path = './aurora'\n")
	plugins, err = newRegistry(t, p).Discover()
	require.NoError(t, err)
	assert.True(t, plugins[0].Installed)
	assert.True(t, plugins[0].SectionEnabled)
}
