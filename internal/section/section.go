// Package section edits named, bracketed blocks inside the shared matugen
// config file.
//
// Every plugin may contribute at most one [group.name] section. The engine
// never parses the file as TOML: plugins expect their surrounding config,
// comments included, to survive byte for byte, so all edits are line-level
// rewrites that only touch the matched block. Disabling a section comments
// every one of its lines; superseded content is commented in place rather
// than deleted so the file keeps an inert trail of what was there before.
package section

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// commentPrefix disables a line. A single marker character plus one space,
// matching what the hook scripts and users write by hand.
const commentPrefix = "# "

// State reports which way a toggle went.
type State int

const (
	// Off means the section is present but every line is commented.
	Off State = iota
	// On means the section is active.
	On
)

func (s State) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// ErrNotFound is returned when the target config has no section, enabled or
// commented, with the requested title.
var ErrNotFound = errors.New("section not found")

var headerRe = regexp.MustCompile(`^\[[^\[\]]+\]$`)

// isHeader reports whether line is a top-level bracketed section header.
// Lines that merely contain brackets, like `palette = ["#000"]`, do not
// count: the whole trimmed line must be the bracketed name.
func isHeader(line string) bool {
	return headerRe.MatchString(strings.TrimSpace(line))
}

// uncomment strips one comment marker. The bool reports whether the line was
// commented at all.
func uncomment(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, commentPrefix):
		return strings.TrimPrefix(trimmed, commentPrefix), true
	case trimmed == "#":
		return "", true
	case strings.HasPrefix(trimmed, "#"):
		return strings.TrimPrefix(trimmed, "#"), true
	}
	return line, false
}

func comment(line string) string {
	if strings.TrimSpace(line) == "" {
		return "#"
	}
	return commentPrefix + line
}

// normalize prepares a body for comparison: per-line trim, blanks dropped.
func normalize(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func equalNormalized(a, b []string) bool {
	na, nb := normalize(a), normalize(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

// findEnabled locates the active block with the given title. end is the index
// one past the last body line; the block runs until the next bracketed header
// or end of file.
func findEnabled(lines []string, title string) (start, end int, ok bool) {
	for i, line := range lines {
		if strings.TrimSpace(line) != title {
			continue
		}
		end = len(lines)
		for j := i + 1; j < len(lines); j++ {
			if isHeader(lines[j]) {
				end = j
				break
			}
		}
		return i, end, true
	}
	return 0, 0, false
}

// findCommented locates a commented-out copy of the titled block.
func findCommented(lines []string, title string) (start int, ok bool) {
	for i, line := range lines {
		stripped, commented := uncomment(line)
		if commented && strings.TrimSpace(stripped) == title {
			return i, true
		}
	}
	return 0, false
}

// commentBlock comments lines[start:end] in place, plus the blank line
// immediately preceding the block so the dead block reads as one unit.
// Lines that are already comments get a second marker; toggling back on
// strips exactly one, so hand-written comments inside a body round-trip.
// Trailing blank lines are separators, not body, and stay untouched.
func commentBlock(lines []string, start, end int) {
	if start > 0 && strings.TrimSpace(lines[start-1]) == "" {
		lines[start-1] = "#"
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	for i := start; i < end; i++ {
		lines[i] = comment(lines[i])
	}
}

// merge returns the file content with the titled section guaranteed present,
// enabled, and carrying body. Matching content is left untouched; divergent
// content is commented where it stands and the fresh section appended.
func merge(lines []string, title string, body []string) []string {
	if start, end, ok := findEnabled(lines, title); ok {
		if equalNormalized(lines[start+1:end], body) {
			return lines
		}
		commentBlock(lines, start, end)
	}

	out := lines
	// Trim trailing blanks before appending so the separator stays single.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	if len(out) > 0 {
		out = append(out, "")
	}
	out = append(out, title)
	out = append(out, body...)
	return out
}

// toggle flips the titled section between commented and active. The block
// boundary is the next bracketed header: the flip never bleeds into an
// adjacent section.
func toggle(lines []string, title string) (State, []string, error) {
	if start, end, ok := findEnabled(lines, title); ok {
		commentBlock(lines, start, end)
		return Off, lines, nil
	}

	start, ok := findCommented(lines, title)
	if !ok {
		return Off, lines, ErrNotFound
	}

	if start > 0 && strings.TrimSpace(lines[start-1]) == "#" {
		lines[start-1] = ""
	}
	stripped, _ := uncomment(lines[start])
	lines[start] = strings.TrimSpace(stripped)
	for i := start + 1; i < len(lines); i++ {
		stripped, commented := uncomment(lines[i])
		if !commented || isHeader(stripped) {
			break
		}
		// A bare marker is a blank the OFF pass commented; restore it and
		// keep scanning, the body continues past it.
		if strings.TrimSpace(stripped) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = stripped
	}
	return On, lines, nil
}

// remove deletes every copy of the titled block, commented or not, along
// with the blank separator preceding each copy.
func remove(lines []string, title string) []string {
	out := make([]string, 0, len(lines))
	i := 0
	for i < len(lines) {
		line := lines[i]
		stripped, commented := uncomment(line)
		name := strings.TrimSpace(stripped)
		if name != title {
			out = append(out, line)
			i++
			continue
		}

		// Drop the separator blank we appended in front of the block.
		if n := len(out); n > 0 {
			if trail := strings.TrimSpace(out[n-1]); trail == "" || trail == "#" {
				out = out[:n-1]
			}
		}

		i++
		for i < len(lines) {
			next := lines[i]
			nextStripped, nextCommented := uncomment(next)
			if commented {
				// A commented copy runs while the lines stay commented and
				// no new header starts.
				if !nextCommented || isHeader(nextStripped) || isHeader(next) {
					break
				}
			} else {
				if isHeader(next) {
					break
				}
			}
			i++
		}
	}
	return out
}

// containsEnabled reports whether the titled section is present and active.
func containsEnabled(lines []string, title string) bool {
	_, _, ok := findEnabled(lines, title)
	return ok
}

// File is the on-disk target config. The zero value is not usable; construct
// with Open.
type File struct {
	path  string
	lines []string
}

// Open reads the target config. A missing file opens as empty: the first
// merge will create it.
func Open(path string) (*File, error) {
	f := &File{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f.lines = splitLines(string(data))
	return f, nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Lines returns a copy of the current content.
func (f *File) Lines() []string {
	return append([]string(nil), f.lines...)
}

// Merge applies the idempotent merge and writes the file.
func (f *File) Merge(title string, body []string) error {
	merged := merge(f.Lines(), title, body)
	if err := f.write(merged); err != nil {
		return err
	}
	f.lines = merged
	return nil
}

// Toggle flips the titled section and writes the file, reporting the new
// state. ErrNotFound is returned unwritten when the section is absent.
func (f *File) Toggle(title string) (State, error) {
	state, toggled, err := toggle(f.Lines(), title)
	if err != nil {
		return state, err
	}
	if err := f.write(toggled); err != nil {
		return state, err
	}
	f.lines = toggled
	return state, nil
}

// Remove deletes the titled section outright, used during uninstall. A
// missing section is not an error: there is nothing to remove.
func (f *File) Remove(title string) error {
	removed := remove(f.Lines(), title)
	if err := f.write(removed); err != nil {
		return err
	}
	f.lines = removed
	return nil
}

// ContainsEnabled reports whether the titled section is present and active.
func (f *File) ContainsEnabled(title string) bool {
	return containsEnabled(f.lines, title)
}

// Contains reports whether the titled section is present at all, active or
// commented out. Install-state classification uses this: a toggled-off
// plugin is still installed.
func (f *File) Contains(title string) bool {
	if containsEnabled(f.lines, title) {
		return true
	}
	_, ok := findCommented(f.lines, title)
	return ok
}

func (f *File) write(lines []string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}

	tmp, err := os.CreateTemp(dir, ".config-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

// Parse reads a plugin's shipped section fragment: the first bracketed header
// is the title, everything after it is the body.
func Parse(path string) (title string, body []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read section file: %w", err)
	}
	lines := splitLines(string(data))
	for i, line := range lines {
		if isHeader(line) {
			return strings.TrimSpace(line), lines[i+1:], nil
		}
	}
	return "", nil, fmt.Errorf("%s: no section header found", path)
}
