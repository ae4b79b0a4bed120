// Package manager sequences plugin state transitions.
//
// The manager is the only writer of the target config and the install-state
// cache. Each operation is a fixed sequence of filesystem edits, section
// engine calls, and hook invocations; the UI never touches any of that
// directly.
package manager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dim-ghub/Nightfall/internal/hook"
	"github.com/dim-ghub/Nightfall/internal/paths"
	"github.com/dim-ghub/Nightfall/internal/plugin"
	"github.com/dim-ghub/Nightfall/internal/registry"
	"github.com/dim-ghub/Nightfall/internal/section"
)

// Report collects what an operation did, for the activity log.
type Report struct {
	Plugin string
	Lines  []string
}

func (r *Report) logf(format string, args ...any) {
	ts := time.Now().Format("15:04:05")
	r.Lines = append(r.Lines, fmt.Sprintf("[%s] %s", ts, fmt.Sprintf(format, args...)))
}

// Manager orchestrates install, uninstall, and toggle.
type Manager struct {
	paths          paths.Paths
	registry       *registry.Registry
	runner         *hook.Runner
	refreshCommand string
}

// New creates a Manager. refreshCommand is the downstream collaborator run
// after every state change; empty disables it.
func New(p paths.Paths, reg *registry.Registry, runner *hook.Runner, refreshCommand string) *Manager {
	return &Manager{paths: p, registry: reg, runner: runner, refreshCommand: refreshCommand}
}

// Install copies the plugin's delivered tree under the config root, merges
// any matugen fragments into the target config, runs the setup hook, and on
// success records the plugin in the cache. A failing hook aborts the install
// before the cache is touched.
func (m *Manager) Install(ctx context.Context, p plugin.Plugin) (*Report, error) {
	report := &Report{Plugin: p.Name}

	entries, err := os.ReadDir(p.DeliveredPath())
	if err != nil {
		return report, fmt.Errorf("plugin %s has no delivered files: %w", p.Name, err)
	}

	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == plugin.MatugenDir {
			if err := m.mergeFragments(ctx, p, report); err != nil {
				return report, err
			}
			continue
		}
		src := filepath.Join(p.DeliveredPath(), entry.Name())
		dst := filepath.Join(m.paths.ConfigRoot, entry.Name())
		if err := copyTree(src, dst); err != nil {
			return report, fmt.Errorf("failed to deliver %s: %w", entry.Name(), err)
		}
		report.logf("delivered %s", entry.Name())
	}

	if p.HasSetup() {
		res, err := m.runner.Run(ctx, p.SetupPath(), p.Dir, hook.Install)
		logHook(report, res)
		if err != nil {
			return report, fmt.Errorf("install aborted: %w", err)
		}
	}

	if err := m.registry.Cache().Add(p.Name); err != nil {
		return report, err
	}
	report.logf("%s installed", p.Name)

	m.refresh(ctx, report)
	return report, nil
}

// Uninstall removes the plugin. The cache entry goes first so the recorded
// intent survives a partially failed cleanup. Only files the plugin actually
// delivered are removed; sibling content under shared directories stays.
func (m *Manager) Uninstall(ctx context.Context, p plugin.Plugin) (*Report, error) {
	report := &Report{Plugin: p.Name}

	if err := m.registry.Cache().Remove(p.Name); err != nil {
		return report, err
	}

	target, err := section.Open(m.paths.TargetConfig)
	if err != nil {
		return report, err
	}
	fragments, err := p.Fragments()
	if err != nil {
		return report, err
	}
	for _, fragment := range fragments {
		title, _, err := section.Parse(fragment)
		if err != nil {
			continue
		}
		if err := target.Remove(title); err != nil {
			return report, err
		}
		report.logf("removed section %s", title)
	}

	entries, err := os.ReadDir(p.DeliveredPath())
	if err != nil && !os.IsNotExist(err) {
		return report, fmt.Errorf("failed to read delivered files: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == plugin.MatugenDir {
			continue
		}
		src := filepath.Join(p.DeliveredPath(), entry.Name())
		dst := filepath.Join(m.paths.ConfigRoot, entry.Name())
		if err := removeDelivered(src, dst); err != nil {
			return report, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		report.logf("removed %s", entry.Name())
	}

	if p.HasSetup() {
		res, err := m.runner.Run(ctx, p.SetupPath(), p.Dir, hook.Uninstall)
		logHook(report, res)
		if err != nil {
			// Cleanup hooks are best effort.
			report.logf("warning: %v", err)
		}
	}
	report.logf("%s uninstalled", p.Name)

	m.refresh(ctx, report)
	return report, nil
}

// Toggle flips the plugin's section between active and commented. Plugins
// without a shared-config section have nothing to toggle. Turning a variant
// plugin on first drives its declared counterpart off.
func (m *Manager) Toggle(ctx context.Context, p plugin.Plugin) (section.State, *Report, error) {
	report := &Report{Plugin: p.Name}

	fragments, err := p.Fragments()
	if err != nil {
		return section.Off, report, err
	}
	if len(fragments) == 0 {
		report.logf("%s has no config section to toggle", p.Name)
		return section.Off, report, nil
	}

	target, err := section.Open(m.paths.TargetConfig)
	if err != nil {
		return section.Off, report, err
	}

	title, _, err := section.Parse(fragments[0])
	if err != nil {
		return section.Off, report, err
	}

	turningOn := !target.ContainsEnabled(title)
	if turningOn && p.Variant != "" {
		if err := m.variantOff(ctx, p.Variant, report); err != nil {
			return section.Off, report, err
		}
		// Reopen: the variant pass may have rewritten the file.
		if target, err = section.Open(m.paths.TargetConfig); err != nil {
			return section.Off, report, err
		}
	}

	state, err := target.Toggle(title)
	if err != nil {
		return state, report, fmt.Errorf("cannot toggle %s: %w", title, err)
	}
	report.logf("section %s now %s", title, state)

	if p.HasSetup() {
		mode := hook.Off
		if state == section.On {
			mode = hook.On
		}
		res, err := m.runner.Run(ctx, p.SetupPath(), p.Dir, mode)
		logHook(report, res)
		if err != nil {
			report.logf("warning: %v", err)
		}
	}

	m.refresh(ctx, report)
	return state, report, nil
}

// mergeFragments merges every shipped section fragment into the target
// config, disabling a declared variant counterpart first since merging
// enables the section.
func (m *Manager) mergeFragments(ctx context.Context, p plugin.Plugin, report *Report) error {
	if p.Variant != "" {
		if err := m.variantOff(ctx, p.Variant, report); err != nil {
			return err
		}
	}

	target, err := section.Open(m.paths.TargetConfig)
	if err != nil {
		return err
	}
	fragments, err := p.Fragments()
	if err != nil {
		return err
	}
	for _, fragment := range fragments {
		title, body, err := section.Parse(fragment)
		if err != nil {
			return err
		}
		if err := target.Merge(title, body); err != nil {
			return err
		}
		report.logf("merged section %s", title)
	}
	return nil
}

// variantOff disables the named counterpart's section if it is currently
// enabled, and tells its hook. At most one plugin of a variant pair may be
// active.
func (m *Manager) variantOff(ctx context.Context, name string, report *Report) error {
	dir := filepath.Join(m.paths.PluginRoot, name)
	counterpart, err := plugin.Load(dir)
	if err != nil {
		// Counterpart not present; nothing to disable.
		return nil
	}

	fragments, err := counterpart.Fragments()
	if err != nil || len(fragments) == 0 {
		return nil
	}
	title, _, err := section.Parse(fragments[0])
	if err != nil {
		return nil
	}

	target, err := section.Open(m.paths.TargetConfig)
	if err != nil {
		return err
	}
	if !target.ContainsEnabled(title) {
		return nil
	}
	if _, err := target.Toggle(title); err != nil {
		return err
	}
	report.logf("disabled variant %s (%s)", counterpart.Name, title)

	if counterpart.HasSetup() {
		res, err := m.runner.Run(ctx, counterpart.SetupPath(), counterpart.Dir, hook.Off)
		logHook(report, res)
		if err != nil {
			report.logf("warning: %v", err)
		}
	}
	return nil
}

// refresh pokes the downstream theme apply command. Failures are logged,
// never fatal.
func (m *Manager) refresh(ctx context.Context, report *Report) {
	res, err := m.runner.Refresh(ctx, m.refreshCommand)
	if err != nil {
		report.logf("refresh: %v", err)
		return
	}
	if res.Ran {
		report.logf("refresh ok")
	}
}

func logHook(report *Report, res hook.Result) {
	if res.Output != "" {
		report.Lines = append(report.Lines, res.Output)
	}
}

// copyTree copies src (file or directory) to dst, preserving file modes.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// removeDelivered mirrors src's layout under dst and removes exactly the
// entries src delivered, then prunes directories that became empty. Files
// that were never delivered are left alone, and already-missing files count
// as removed.
func removeDelivered(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := removeDelivered(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	// Drop the directory only once the plugin's own entries are gone and
	// nothing else lives there.
	if remaining, err := os.ReadDir(dst); err == nil && len(remaining) == 0 {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
