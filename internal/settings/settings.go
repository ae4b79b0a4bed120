// Package settings persists user preferences as JSON under the config root.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Settings contains all user preferences.
type Settings struct {
	// === BEHAVIOR ===
	RefreshCommand     string `json:"refreshCommand"`     // run after install/uninstall/toggle (empty = skip)
	HookTimeoutSeconds int    `json:"hookTimeoutSeconds"` // deadline for setup scripts
	ConfirmUninstall   bool   `json:"confirmUninstall"`   // ask before uninstalling

	// === UI OPTIONS ===
	MouseEnabled     bool `json:"mouseEnabled"`     // capture mouse clicks and wheel
	ShowDescriptions bool `json:"showDescriptions"` // show description column in lists
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		RefreshCommand:     "nightfall-reload",
		HookTimeoutSeconds: 120,
		ConfirmUninstall:   true,
		MouseEnabled:       true,
		ShowDescriptions:   true,
	}
}

// Load reads settings from path. A missing file yields the defaults; a
// malformed file is an error so a typo never silently resets preferences.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.HookTimeoutSeconds <= 0 {
		s.HookTimeoutSeconds = DefaultSettings().HookTimeoutSeconds
	}
	return s, nil
}

// HookTimeout returns the setup-script deadline as a duration.
func (s *Settings) HookTimeout() time.Duration {
	return time.Duration(s.HookTimeoutSeconds) * time.Second
}

// Save writes settings to path, creating the directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
