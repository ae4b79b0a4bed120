// Package plugin defines the plugin bundle contract and metadata parsing.
package plugin

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Layout of a plugin directory. Everything the manager touches lives under
// these fixed names; previews are for humans and ignored entirely.
const (
	InfoFile     = "info"      // metadata: title, optional variant, description
	SetupScript  = "setup"     // optional hook, invoked with an install mode flag
	DeliveredDir = "delivered" // tree installed under the user config root
	PreviewsDir  = "previews"  // screenshots, ignored
	ReadmeFile   = "README.md" // optional long-form docs for the info overlay

	// MatugenDir is the reserved namespace under delivered/. Its files are
	// section fragments merged into the shared matugen config rather than
	// copied verbatim.
	MatugenDir = "matugen"
)

// Plugin is one discovered bundle. It is rebuilt from the filesystem and the
// cache on every scan and never persisted itself.
type Plugin struct {
	Name        string // directory name, unique
	Title       string // first info line
	Description string
	Variant     string // name of a mutually exclusive counterpart, if declared
	Installed   bool
	Dir         string // absolute plugin directory

	// SectionTitle is the marker of the plugin's shared-config section, if it
	// ships one, and SectionEnabled its current state in the target config.
	// Both are filled in by the registry during a scan.
	SectionTitle   string
	SectionEnabled bool
}

// Fragments lists the plugin's shipped section files under delivered/matugen,
// sorted. An absent matugen directory yields an empty list.
func (p Plugin) Fragments() ([]string, error) {
	dir := filepath.Join(p.DeliveredPath(), MatugenDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list section fragments: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// DeliveredPath returns the plugin's delivered tree root.
func (p Plugin) DeliveredPath() string {
	return filepath.Join(p.Dir, DeliveredDir)
}

// SetupPath returns the hook script location, whether or not it exists.
func (p Plugin) SetupPath() string {
	return filepath.Join(p.Dir, SetupScript)
}

// HasSetup reports whether the plugin ships a hook script.
func (p Plugin) HasSetup() bool {
	info, err := os.Stat(p.SetupPath())
	return err == nil && !info.IsDir()
}

// ReadmePath returns the README location and whether one exists.
func (p Plugin) ReadmePath() (string, bool) {
	path := filepath.Join(p.Dir, ReadmeFile)
	info, err := os.Stat(path)
	return path, err == nil && !info.IsDir()
}

// ParseInfo reads a plugin metadata file. The first non-empty line, leading
// comment marker stripped, is the title. A "variant = <name>" line may appear
// anywhere. Every line from the third onward joins into the description.
func ParseInfo(path string) (title, variant, description string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to read plugin info: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", "", "", fmt.Errorf("failed to read plugin info: %w", err)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		title = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		break
	}
	if title == "" {
		return "", "", "", fmt.Errorf("%s: missing title line", path)
	}

	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(key) == "variant" {
			variant = strings.TrimSpace(value)
			break
		}
	}

	var desc []string
	for i, line := range lines {
		if i < 2 {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if key, _, ok := strings.Cut(trimmed, "="); ok && strings.TrimSpace(key) == "variant" {
			continue
		}
		desc = append(desc, trimmed)
	}
	return title, variant, strings.Join(desc, " "), nil
}

// Load builds a Plugin for dir without classifying install state.
func Load(dir string) (Plugin, error) {
	title, variant, description, err := ParseInfo(filepath.Join(dir, InfoFile))
	if err != nil {
		return Plugin{}, err
	}
	return Plugin{
		Name:        filepath.Base(dir),
		Title:       title,
		Description: description,
		Variant:     variant,
		Dir:         dir,
	}, nil
}
