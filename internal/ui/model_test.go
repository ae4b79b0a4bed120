package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dim-ghub/Nightfall/internal/manager"
	"github.com/dim-ghub/Nightfall/internal/plugin"
	"github.com/dim-ghub/Nightfall/internal/section"
	"github.com/dim-ghub/Nightfall/internal/settings"
)

type mockScanner struct {
	plugins []plugin.Plugin
	err     error
	scans   int
}

func (s *mockScanner) Discover() ([]plugin.Plugin, error) {
	s.scans++
	return s.plugins, s.err
}

type mockOrch struct {
	installs   []string
	uninstalls []string
	toggles    []string
	err        error
}

func (o *mockOrch) Install(ctx context.Context, p plugin.Plugin) (*manager.Report, error) {
	o.installs = append(o.installs, p.Name)
	return &manager.Report{Plugin: p.Name, Lines: []string{p.Name + " installed"}}, o.err
}

func (o *mockOrch) Uninstall(ctx context.Context, p plugin.Plugin) (*manager.Report, error) {
	o.uninstalls = append(o.uninstalls, p.Name)
	return &manager.Report{Plugin: p.Name, Lines: []string{p.Name + " uninstalled"}}, o.err
}

func (o *mockOrch) Toggle(ctx context.Context, p plugin.Plugin) (section.State, *manager.Report, error) {
	o.toggles = append(o.toggles, p.Name)
	return section.Off, &manager.Report{Plugin: p.Name}, o.err
}

func fixturePlugins() []plugin.Plugin {
	return []plugin.Plugin{
		{Name: "aurora", Title: "Aurora", Installed: true, SectionTitle: "[templates.aurora]", SectionEnabled: true},
		{Name: "breeze", Title: "Breeze", Installed: true, SectionTitle: "[templates.breeze]"},
		{Name: "cascade", Title: "Cascade"},
		{Name: "dusk", Title: "Dusk"},
	}
}

func newTestModel(scanner *mockScanner, orch *mockOrch) Model {
	m := NewModel(scanner, orch, settings.DefaultSettings(), nil, "test")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 22})
	m = next.(Model)
	next, _ = m.Update(pluginsLoadedMsg{plugins: scanner.plugins})
	return next.(Model)
}

// collect runs a command tree and flattens everything it produced.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findOpDone(msgs []tea.Msg) (opDoneMsg, bool) {
	for _, msg := range msgs {
		if done, ok := msg.(opDoneMsg); ok {
			return done, true
		}
	}
	return opDoneMsg{}, false
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTabsSplitByInstallState(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	assert.Len(t, m.items[TabPlugins], 4)
	assert.Len(t, m.items[TabInstalled], 2)
}

func TestNavigationClampsAtEnds(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	m.moveUp()
	assert.Equal(t, 0, m.selected[TabPlugins])

	for i := 0; i < 10; i++ {
		m.moveDown()
	}
	assert.Equal(t, 3, m.selected[TabPlugins])
}

func TestScrollOffsetFollowsSelection(t *testing.T) {
	var plugins []plugin.Plugin
	for i := 0; i < 30; i++ {
		plugins = append(plugins, plugin.Plugin{Name: fmt.Sprintf("p%02d", i), Title: fmt.Sprintf("Plugin %02d", i)})
	}
	// Height 22 leaves 12 visible rows.
	m := newTestModel(&mockScanner{plugins: plugins}, &mockOrch{})
	require.Equal(t, 12, m.viewportRows())

	m.selected[TabPlugins] = 29
	m.ensureVisible()
	assert.Equal(t, 18, m.offset[TabPlugins])

	// Moving back up scrolls with minimal movement.
	m.selected[TabPlugins] = 17
	m.ensureVisible()
	assert.Equal(t, 17, m.offset[TabPlugins])

	m.selected[TabPlugins] = 0
	m.ensureVisible()
	assert.Equal(t, 0, m.offset[TabPlugins])
}

func TestTabSwitchKeepsPerTabSelection(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	m.moveDown()
	m.moveDown()
	require.Equal(t, 2, m.selected[TabPlugins])

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, TabInstalled, m.tab)
	assert.Equal(t, 0, m.selected[TabInstalled])

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, TabPlugins, m.tab)
	assert.Equal(t, 2, m.selected[TabPlugins])
}

func TestEnterInstallsOnPluginsTab(t *testing.T) {
	orch := &mockOrch{}
	scanner := &mockScanner{plugins: fixturePlugins()}
	m := newTestModel(scanner, orch)

	m.selected[TabPlugins] = 2 // cascade, not installed

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.True(t, m.busy)

	done, ok := findOpDone(collect(cmd))
	require.True(t, ok)
	assert.Equal(t, []string{"cascade"}, orch.installs)

	// Completion appends to the activity log and rescans.
	next, cmd = m.Update(done)
	m = next.(Model)
	assert.False(t, m.busy)
	assert.Contains(t, m.activity, "cascade installed")
	collect(cmd)
	assert.Equal(t, 1, scanner.scans)
}

func TestEnterOnInstalledPluginDoesNotReinstall(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, orch)

	m.selected[TabPlugins] = 0 // aurora, installed

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.Empty(t, orch.installs)
}

func TestToggleKey(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, orch)

	_, cmd := m.Update(keyPress('t')) // aurora selected
	_, ok := findOpDone(collect(cmd))
	require.True(t, ok)
	assert.Equal(t, []string{"aurora"}, orch.toggles)
}

func TestToggleNeedsSection(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: []plugin.Plugin{
		{Name: "plain", Title: "Plain", Installed: true},
	}}, orch)

	_, cmd := m.Update(keyPress('t'))
	assert.Nil(t, cmd)
	assert.Empty(t, orch.toggles)
}

func TestUninstallNeedsConfirmation(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, orch)

	next, cmd := m.Update(keyPress('u')) // aurora, installed
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Empty(t, orch.uninstalls)
	assert.Equal(t, "aurora", m.confirmName)

	_, cmd = m.Update(keyPress('u'))
	_, ok := findOpDone(collect(cmd))
	require.True(t, ok)
	assert.Equal(t, []string{"aurora"}, orch.uninstalls)
}

func TestUninstallConfirmationDropsOnOtherKey(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, orch)

	next, _ := m.Update(keyPress('u'))
	m = next.(Model)
	next, _ = m.Update(keyPress('j'))
	m = next.(Model)
	assert.Empty(t, m.confirmName)
}

func TestUninstallSkipsConfirmWhenDisabled(t *testing.T) {
	orch := &mockOrch{}
	scanner := &mockScanner{plugins: fixturePlugins()}
	m := NewModel(scanner, orch, &settings.Settings{MouseEnabled: true}, nil, "test")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 22})
	m = next.(Model)
	next, _ = m.Update(pluginsLoadedMsg{plugins: scanner.plugins})
	m = next.(Model)

	_, cmd := m.Update(keyPress('u'))
	_, ok := findOpDone(collect(cmd))
	require.True(t, ok)
	assert.Equal(t, []string{"aurora"}, orch.uninstalls)
}

func TestBusyBlocksOperations(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, orch)
	m.busy = true
	m.selected[TabPlugins] = 2

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, orch.installs)
}

func TestFilterNarrowsList(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	next, _ := m.Update(keyPress('/'))
	m = next.(Model)
	require.True(t, m.filterActive)

	for _, r := range "dusk" {
		next, _ = m.Update(keyPress(r))
		m = next.(Model)
	}
	visible := m.visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "dusk", visible[0].Name)

	// Escape clears the filter.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(Model)
	assert.False(t, m.filterActive)
	assert.Len(t, m.visible(), 4)
}

func TestFilterAcceptsSpaces(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: []plugin.Plugin{
		{Name: "aurora-dark", Title: "Aurora Dark"},
		{Name: "aurora-light", Title: "Aurora Light"},
	}}, &mockOrch{})

	next, _ := m.Update(keyPress('/'))
	m = next.(Model)
	for _, r := range "ora" {
		next, _ = m.Update(keyPress(r))
		m = next.(Model)
	}
	// The terminal delivers a space as KeySpace with its rune attached.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	for _, r := range "da" {
		next, _ = m.Update(keyPress(r))
		m = next.(Model)
	}

	assert.Equal(t, "ora da", m.filterText)
	visible := m.visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "aurora-dark", visible[0].Name)
}

func TestMouseWheelMovesSelection(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	next, _ := m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	m = next.(Model)
	assert.Equal(t, 1, m.selected[TabPlugins])

	next, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	m = next.(Model)
	assert.Equal(t, 0, m.selected[TabPlugins])
}

func TestMouseClickSelectsAndInstalls(t *testing.T) {
	orch := &mockOrch{}
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, orch)

	next, cmd := m.Update(tea.MouseMsg{
		X: 5, Y: listTopY + 2,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(Model)
	assert.Equal(t, 2, m.selected[TabPlugins])

	_, ok := findOpDone(collect(cmd))
	require.True(t, ok)
	assert.Equal(t, []string{"cascade"}, orch.installs)
}

func TestMouseClickSwitchesTab(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	zones := m.tabZones()
	next, _ := m.Update(tea.MouseMsg{
		X: zones[TabInstalled].x0, Y: tabRowY,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(Model)
	assert.Equal(t, TabInstalled, m.tab)
}

func TestMouseIgnoredWhenDisabled(t *testing.T) {
	scanner := &mockScanner{plugins: fixturePlugins()}
	s := settings.DefaultSettings()
	s.MouseEnabled = false
	m := NewModel(scanner, &mockOrch{}, s, nil, "test")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 22})
	m = next.(Model)
	next, _ = m.Update(pluginsLoadedMsg{plugins: scanner.plugins})
	m = next.(Model)

	next, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	m = next.(Model)
	assert.Equal(t, 0, m.selected[TabPlugins])
}

func TestScanErrorSetsStatus(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})

	next, _ := m.Update(pluginsLoadedMsg{err: fmt.Errorf("plugin root vanished")})
	m = next.(Model)
	assert.Contains(t, m.statusMessage, "plugin root vanished")
}

func TestViewRendersWithoutSize(t *testing.T) {
	m := NewModel(&mockScanner{}, &mockOrch{}, settings.DefaultSettings(), nil, "test")
	assert.NotEmpty(t, m.View())
}

func TestViewListsPlugins(t *testing.T) {
	m := newTestModel(&mockScanner{plugins: fixturePlugins()}, &mockOrch{})
	view := m.View()
	assert.Contains(t, view, "Aurora")
	assert.Contains(t, view, "Cascade")
}
