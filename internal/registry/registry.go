// Package registry discovers plugins and classifies their install state.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dim-ghub/Nightfall/internal/cache"
	"github.com/dim-ghub/Nightfall/internal/paths"
	"github.com/dim-ghub/Nightfall/internal/plugin"
	"github.com/dim-ghub/Nightfall/internal/section"
)

// excluded names internal tooling directories that live next to plugins but
// are not plugins themselves.
var excluded = map[string]bool{
	".git":  true,
	"tools": true,
}

// Registry scans the plugin root and reconciles what it finds with the
// install-state cache. The cache is authoritative: a cached name is installed
// without any filesystem check. Filesystem evidence only bootstraps missing
// entries, and a positive filesystem classification is written back so the
// next scan takes the fast path.
type Registry struct {
	paths paths.Paths
	cache *cache.Cache
}

// New creates a Registry over the given locations and cache.
func New(p paths.Paths, c *cache.Cache) *Registry {
	return &Registry{paths: p, cache: c}
}

// Cache exposes the underlying cache, for the orchestrator.
func (r *Registry) Cache() *cache.Cache {
	return r.cache
}

// Discover enumerates plugin directories, parses their metadata, and
// classifies each one's install state. Directories without an info file and
// blacklisted names are skipped. Results are sorted by name.
func (r *Registry) Discover() ([]plugin.Plugin, error) {
	entries, err := os.ReadDir(r.paths.PluginRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin directory: %w", err)
	}

	target, err := section.Open(r.paths.TargetConfig)
	if err != nil {
		return nil, err
	}

	var plugins []plugin.Plugin
	for _, entry := range entries {
		if !entry.IsDir() || excluded[entry.Name()] {
			continue
		}
		dir := filepath.Join(r.paths.PluginRoot, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, plugin.InfoFile)); err != nil {
			continue
		}

		p, err := plugin.Load(dir)
		if err != nil {
			// A broken info file should not take the whole scan down.
			continue
		}

		p.Installed = r.classify(p, target)
		r.fillSectionState(&p, target)
		plugins = append(plugins, p)
	}

	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name < plugins[j].Name })
	return plugins, nil
}

// classify determines whether p is installed. Cache entries win outright.
// Otherwise every delivered entry must be present: matugen fragments as
// sections in the target config, anything else as its namesake under the
// config root. A single miss short-circuits to false. A filesystem-derived
// true is written back into the cache.
func (r *Registry) classify(p plugin.Plugin, target *section.File) bool {
	if r.cache.Contains(p.Name) {
		return true
	}

	entries, err := os.ReadDir(p.DeliveredPath())
	if err != nil {
		return false
	}

	found := false
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == plugin.MatugenDir {
			fragments, err := p.Fragments()
			if err != nil || len(fragments) == 0 {
				return false
			}
			for _, fragment := range fragments {
				title, _, err := section.Parse(fragment)
				if err != nil || !target.Contains(title) {
					return false
				}
			}
			found = true
			continue
		}
		if _, err := os.Stat(filepath.Join(r.paths.ConfigRoot, entry.Name())); err != nil {
			return false
		}
		found = true
	}
	if !found {
		return false
	}

	// Self-heal toward filesystem truth so the next scan skips the walk.
	if err := r.cache.Add(p.Name); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to update cache: %v\n", err)
	}
	return true
}

// fillSectionState records the plugin's section marker and whether it is
// currently active, for the toggle-status display.
func (r *Registry) fillSectionState(p *plugin.Plugin, target *section.File) {
	fragments, err := p.Fragments()
	if err != nil || len(fragments) == 0 {
		return
	}
	title, _, err := section.Parse(fragments[0])
	if err != nil {
		return
	}
	p.SectionTitle = title
	p.SectionEnabled = target.ContainsEnabled(title)
}
