// Package preflight runs startup environment checks.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dim-ghub/Nightfall/internal/paths"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name    string
	Status  Status
	Message string
}

// Status represents the status of a check
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

// Results contains all preflight check results
type Results struct {
	Checks      []CheckResult
	HasErrors   bool
	HasWarnings bool
}

// Run executes all preflight checks. Only a missing plugin root is an
// error; everything else degrades to a warning because the manager can run
// without it.
func Run(p paths.Paths, refreshCommand string) *Results {
	results := &Results{}

	results.add(checkDir("Plugin directory", p.PluginRoot, StatusError))
	results.add(checkFile("Matugen config", p.TargetConfig, StatusWarning,
		"will be created on first install"))
	results.add(checkCommand("Refresh command", refreshCommand))

	return results
}

func (r *Results) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case StatusError:
		r.HasErrors = true
	case StatusWarning:
		r.HasWarnings = true
	}
}

func checkDir(name, path string, missing Status) CheckResult {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return CheckResult{Name: name, Status: missing, Message: path + " not found"}
	}
	return CheckResult{Name: name, Status: StatusOK, Message: path}
}

func checkFile(name, path string, missing Status, hint string) CheckResult {
	if _, err := os.Stat(path); err != nil {
		return CheckResult{Name: name, Status: missing, Message: fmt.Sprintf("%s missing (%s)", path, hint)}
	}
	return CheckResult{Name: name, Status: StatusOK, Message: path}
}

func checkCommand(name, command string) CheckResult {
	if command == "" {
		return CheckResult{Name: name, Status: StatusWarning, Message: "not configured"}
	}
	bin := strings.Fields(command)[0]
	if _, err := exec.LookPath(bin); err != nil {
		return CheckResult{Name: name, Status: StatusWarning, Message: bin + " not on PATH, refresh will be skipped"}
	}
	return CheckResult{Name: name, Status: StatusOK, Message: command}
}
