package hook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "setup")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestRunMissingScript(t *testing.T) {
	r := NewRunner(0)
	res, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "setup"), t.TempDir(), Install)
	require.NoError(t, err)
	assert.False(t, res.Ran)
}

func TestRunPassesMode(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `echo "mode: $1"`)

	r := NewRunner(0)
	res, err := r.Run(context.Background(), script, dir, On)
	require.NoError(t, err)
	assert.True(t, res.Ran)
	assert.Equal(t, "mode: --on", res.Output)
}

func TestRunWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "pwd")

	r := NewRunner(0)
	res, err := r.Run(context.Background(), script, dir, Install)
	require.NoError(t, err)
	assert.True(t, res.Ran)
	// macOS tempdirs resolve through symlinks, so compare resolved paths.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(res.Output)
	assert.Equal(t, want, got)
}

func TestRunFailureKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "echo broken dependency; exit 3")

	r := NewRunner(0)
	res, err := r.Run(context.Background(), script, dir, Install)
	assert.Error(t, err)
	assert.True(t, res.Ran)
	assert.Equal(t, "broken dependency", res.Output)
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "sleep 5")

	r := NewRunner(100 * time.Millisecond)
	_, err := r.Run(context.Background(), script, dir, Install)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestNewRunnerDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewRunner(0).Timeout)
	assert.Equal(t, 5*time.Second, NewRunner(5*time.Second).Timeout)
}

func TestRefreshEmptyCommand(t *testing.T) {
	r := NewRunner(0)
	res, err := r.Refresh(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, res.Ran)
}

func TestRefreshMissingCommand(t *testing.T) {
	r := NewRunner(0)
	_, err := r.Refresh(context.Background(), "definitely-not-a-real-binary-name")
	assert.Error(t, err)
}

func TestRefreshRunsWithArgs(t *testing.T) {
	r := NewRunner(0)
	res, err := r.Refresh(context.Background(), "echo theme reloaded")
	require.NoError(t, err)
	assert.True(t, res.Ran)
	assert.Equal(t, "theme reloaded", res.Output)
}
