package nightfall

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dim-ghub/Nightfall/internal/cache"
	"github.com/dim-ghub/Nightfall/internal/hook"
	"github.com/dim-ghub/Nightfall/internal/manager"
	"github.com/dim-ghub/Nightfall/internal/paths"
	"github.com/dim-ghub/Nightfall/internal/preflight"
	"github.com/dim-ghub/Nightfall/internal/registry"
	"github.com/dim-ghub/Nightfall/internal/settings"
	"github.com/dim-ghub/Nightfall/internal/ui"
)

var (
	appVersion string
	appCommit  string
	appDate    string
	clearCache bool
)

var rootCmd = &cobra.Command{
	Use:   "nightfall",
	Short: "A terminal UI for managing Nightfall theme plugins",
	Long: `nightfall manages theme plugins for the Nightfall desktop environment.
Install, toggle, and remove plugins, with their matugen template sections
kept in sync, from one interface.

Run 'nightfall' with no arguments to open the UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if clearCache {
			return runClearCache()
		}
		return runApp()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nightfall %s\n", appVersion)
		fmt.Printf("  commit: %s\n", appCommit)
		fmt.Printf("  built:  %s\n", appDate)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List plugins and their install state",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paths.Default()
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		c, err := cache.Open(p.CacheFile)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		plugins, err := registry.New(p, c).Discover()
		if err != nil {
			return err
		}
		for _, pl := range plugins {
			state := "available"
			if pl.Installed {
				state = "installed"
				if pl.SectionTitle != "" && !pl.SectionEnabled {
					state = "installed (off)"
				}
			}
			fmt.Printf("%s\t%s\t%s\n", pl.Name, state, pl.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)

	rootCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "wipe the install-state cache and exit")
}

func Execute(version, commit, date string) error {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = version
	return rootCmd.Execute()
}

func runClearCache() error {
	p, err := paths.Default()
	if err != nil {
		return err
	}
	c, err := cache.Open(p.CacheFile)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("Install-state cache cleared. It will be rebuilt on the next scan.")
	return nil
}

func runApp() error {
	if !isTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("nightfall requires an interactive terminal; use 'nightfall list' for scripted output")
	}

	p, err := paths.Default()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	userSettings, err := settings.Load(p.SettingsFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	checks := preflight.Run(p, userSettings.RefreshCommand)

	c, err := cache.Open(p.CacheFile)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	reg := registry.New(p, c)

	runner := hook.NewRunner(userSettings.HookTimeout())
	orch := manager.New(p, reg, runner, userSettings.RefreshCommand)

	model := ui.NewModel(reg, orch, userSettings, checks, appVersion)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if userSettings.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// isTerminal checks if the given file descriptor is a terminal
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
