package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dim-ghub/Nightfall/internal/paths"
)

func TestRunHealthyEnvironment(t *testing.T) {
	root := t.TempDir()
	p := paths.Paths{
		PluginRoot:   root,
		TargetConfig: filepath.Join(root, "config.toml"),
	}
	require.NoError(t, os.WriteFile(p.TargetConfig, []byte(""), 0644))

	results := Run(p, "sh")
	assert.False(t, results.HasErrors)
	assert.False(t, results.HasWarnings)
	assert.Len(t, results.Checks, 3)
}

func TestRunMissingPluginRootIsAnError(t *testing.T) {
	p := paths.Paths{
		PluginRoot:   filepath.Join(t.TempDir(), "missing"),
		TargetConfig: filepath.Join(t.TempDir(), "config.toml"),
	}

	results := Run(p, "sh")
	assert.True(t, results.HasErrors)
}

func TestRunMissingConfigAndCommandAreWarnings(t *testing.T) {
	root := t.TempDir()
	p := paths.Paths{
		PluginRoot:   root,
		TargetConfig: filepath.Join(root, "config.toml"),
	}

	results := Run(p, "definitely-not-a-real-binary-name")
	assert.False(t, results.HasErrors)
	assert.True(t, results.HasWarnings)
}

func TestRunEmptyRefreshCommandWarns(t *testing.T) {
	root := t.TempDir()
	p := paths.Paths{PluginRoot: root, TargetConfig: filepath.Join(root, "config.toml")}
	require.NoError(t, os.WriteFile(p.TargetConfig, []byte(""), 0644))

	results := Run(p, "")
	assert.True(t, results.HasWarnings)
}
