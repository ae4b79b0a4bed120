// Package cache persists the set of plugin names considered installed.
//
// Once a name is in the cache it is trusted over filesystem inspection; the
// registry only falls back to walking delivered files when the cache has no
// entry. Entries leave the cache on uninstall or an explicit clear, never
// through background pruning.
package cache

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatTag is the literal first line of a valid cache file. A file with a
// different tag is treated as absent, not as corruption.
const FormatTag = "nightfall-cache-v1"

// Cache is a name set backed by a flat file. All mutations rewrite the whole
// file through a rename so an interrupted write never leaves a partial cache.
type Cache struct {
	path  string
	names map[string]struct{}
}

// Open loads the cache at path. A missing file or a format-tag mismatch
// yields an empty cache; other read errors are returned.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, names: make(map[string]struct{})}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() || scanner.Text() != FormatTag {
		// Unknown format, start over.
		return c, nil
	}
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			c.names[name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	return c, nil
}

// Contains reports whether name is recorded as installed.
func (c *Cache) Contains(name string) bool {
	_, ok := c.names[name]
	return ok
}

// Names returns the cached names in sorted order.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.names))
	for name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	return len(c.names)
}

// Add records name as installed. Adding a present name is a no-op.
func (c *Cache) Add(name string) error {
	if _, ok := c.names[name]; ok {
		return nil
	}
	c.names[name] = struct{}{}
	return c.write()
}

// Remove drops name from the cache. Removing an absent name is a no-op.
func (c *Cache) Remove(name string) error {
	if _, ok := c.names[name]; !ok {
		return nil
	}
	delete(c.names, name)
	return c.write()
}

// Clear removes the cache file and empties the in-memory set.
func (c *Cache) Clear() error {
	c.names = make(map[string]struct{})
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (c *Cache) write() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	var b strings.Builder
	b.WriteString(FormatTag + "\n")
	for _, name := range c.Names() {
		b.WriteString(name + "\n")
	}

	// Write-then-rename keeps the cache whole if we die mid-write.
	tmp, err := os.CreateTemp(dir, ".installed-*")
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}
