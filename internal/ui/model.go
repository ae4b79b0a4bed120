package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/dim-ghub/Nightfall/internal/manager"
	"github.com/dim-ghub/Nightfall/internal/plugin"
	"github.com/dim-ghub/Nightfall/internal/preflight"
	"github.com/dim-ghub/Nightfall/internal/section"
	"github.com/dim-ghub/Nightfall/internal/settings"
)

// Tab identifies one of the two fixed list tabs.
type Tab int

const (
	TabPlugins Tab = iota
	TabInstalled
	tabCount
)

var tabLabels = [tabCount]string{"Plugins", "Installed"}

// Fixed rows of chrome above the list. The tab bar sits on tabRowY and list
// rows start at listTopY; mouse hit-testing and rendering share these.
const (
	tabRowY  = 3
	listTopY = 6
)

// Orchestrator is the slice of the manager the UI drives. Every mutation of
// the filesystem, the target config, or the cache goes through here.
type Orchestrator interface {
	Install(ctx context.Context, p plugin.Plugin) (*manager.Report, error)
	Uninstall(ctx context.Context, p plugin.Plugin) (*manager.Report, error)
	Toggle(ctx context.Context, p plugin.Plugin) (section.State, *manager.Report, error)
}

// Scanner rebuilds the plugin list. Re-run after every operation so the UI
// always renders reconciled state.
type Scanner interface {
	Discover() ([]plugin.Plugin, error)
}

type zone struct {
	x0, x1 int // inclusive start, exclusive end on the tab row
}

func (z zone) contains(x int) bool { return x >= z.x0 && x < z.x1 }

// Model is the main app state
type Model struct {
	scanner  Scanner
	orch     Orchestrator
	settings *settings.Settings
	checks   *preflight.Results
	version  string

	// Plugin lists, one per tab, rebuilt on every scan.
	items    [tabCount][]plugin.Plugin
	tab      Tab
	selected [tabCount]int
	offset   [tabCount]int

	// Filter mode
	filterActive bool
	filterText   string

	// Overlays
	showInfo      bool
	infoViewport  viewport.Model
	showHelp      bool
	showPreflight bool

	// Uninstall confirmation
	confirmName string
	confirmTime time.Time

	activity []string

	spinner       spinner.Model
	help          help.Model
	keys          keyMap
	width         int
	height        int
	loading       bool
	busy          bool
	statusMessage string
	statusTime    time.Time
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Info      key.Binding
	Toggle    key.Binding
	Uninstall key.Binding
	Refresh   key.Binding
	Filter    key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev tab")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next tab")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		Enter:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "install/toggle")),
		Info:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Toggle:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle")),
		Uninstall: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "uninstall")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy info")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Toggle, k.Uninstall, k.Info, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab},
		{k.Enter, k.Toggle, k.Uninstall},
		{k.Info, k.Filter, k.Copy},
		{k.Refresh, k.Help, k.Quit},
	}
}

// NewModel creates the main model.
func NewModel(scanner Scanner, orch Orchestrator, userSettings *settings.Settings, checks *preflight.Results, version string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(nightViolet)

	h := help.New()
	h.Styles.ShortKey = helpKeyStyle
	h.Styles.FullKey = helpKeyStyle

	return Model{
		scanner:       scanner,
		orch:          orch,
		settings:      userSettings,
		checks:        checks,
		version:       version,
		spinner:       s,
		help:          h,
		keys:          defaultKeyMap(),
		infoViewport:  viewport.New(0, 0),
		loading:       true,
		showPreflight: checks != nil && checks.HasErrors,
	}
}

// Messages
type pluginsLoadedMsg struct {
	plugins []plugin.Plugin
	err     error
}

type opDoneMsg struct {
	report *manager.Report
	err    error
}

func (m Model) loadPlugins() tea.Msg {
	plugins, err := m.scanner.Discover()
	return pluginsLoadedMsg{plugins: plugins, err: err}
}

// Init starts the app
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPlugins, m.spinner.Tick, tea.SetWindowTitle("nightfall"))
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.infoViewport.Width = m.width - 6
		m.infoViewport.Height = m.height - 6
		m.ensureVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pluginsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus("Scan failed: " + msg.err.Error())
			return m, nil
		}
		m.setItems(msg.plugins)
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.report != nil {
			m.activity = append(m.activity, msg.report.Lines...)
		}
		if msg.err != nil {
			m.activity = append(m.activity, errorLine(msg.err))
			m.setStatus("Failed: " + msg.err.Error())
		}
		m.loading = true
		return m, m.loadPlugins
	}

	return m, nil
}

func errorLine(err error) string {
	ts := time.Now().Format("15:04:05")
	return fmt.Sprintf("[%s] error: %v", ts, err)
}

// setItems rebuilds the per-tab lists from a fresh scan.
func (m *Model) setItems(plugins []plugin.Plugin) {
	m.items[TabPlugins] = plugins
	installed := make([]plugin.Plugin, 0, len(plugins))
	for _, p := range plugins {
		if p.Installed {
			installed = append(installed, p)
		}
	}
	m.items[TabInstalled] = installed
	m.clampSelection()
}

// visible returns the current tab's items, narrowed by the fuzzy filter when
// one is set.
func (m *Model) visible() []plugin.Plugin {
	items := m.items[m.tab]
	if m.filterText == "" {
		return items
	}
	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.Title + " " + p.Name
	}
	matches := fuzzy.Find(m.filterText, names)
	narrowed := make([]plugin.Plugin, 0, len(matches))
	for _, match := range matches {
		narrowed = append(narrowed, items[match.Index])
	}
	return narrowed
}

func (m *Model) current() *plugin.Plugin {
	items := m.visible()
	sel := m.selected[m.tab]
	if len(items) == 0 || sel < 0 || sel >= len(items) {
		return nil
	}
	p := items[sel]
	return &p
}

// viewportRows is the fixed list height for the current window size.
func (m *Model) viewportRows() int {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

// clampSelection keeps the selected row inside [0, itemCount-1] for every
// tab and the scroll offset minimal.
func (m *Model) clampSelection() {
	for t := Tab(0); t < tabCount; t++ {
		count := len(m.items[t])
		if t == m.tab {
			count = len(m.visible())
		}
		if m.selected[t] >= count {
			m.selected[t] = count - 1
		}
		if m.selected[t] < 0 {
			m.selected[t] = 0
		}
	}
	m.ensureVisible()
}

// ensureVisible keeps the selected row visible with the minimal offset.
func (m *Model) ensureVisible() {
	rows := m.viewportRows()
	sel := m.selected[m.tab]
	if sel < m.offset[m.tab] {
		m.offset[m.tab] = sel
	}
	if sel >= m.offset[m.tab]+rows {
		m.offset[m.tab] = sel - rows + 1
	}
	if m.offset[m.tab] < 0 {
		m.offset[m.tab] = 0
	}
}

func (m *Model) moveUp() {
	if m.selected[m.tab] > 0 {
		m.selected[m.tab]--
		m.ensureVisible()
	}
}

func (m *Model) moveDown() {
	if m.selected[m.tab] < len(m.visible())-1 {
		m.selected[m.tab]++
		m.ensureVisible()
	}
}

func (m *Model) switchTab(t Tab) {
	if t == m.tab {
		return
	}
	m.tab = t
	m.filterActive = false
	m.filterText = ""
	m.clampSelection()
}

func (m *Model) nextTab() {
	m.switchTab((m.tab + 1) % tabCount)
}

func (m *Model) prevTab() {
	m.switchTab((m.tab + tabCount - 1) % tabCount)
}

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	m.statusTime = time.Now()
}

// handleKey dispatches keyboard input, overlays first.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showInfo {
		return m.handleInfoKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showPreflight {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.showPreflight = false
		return m, nil
	}
	if m.filterActive {
		return m.handleFilterKey(msg)
	}

	// Any key except uninstall drops a pending confirmation.
	if m.confirmName != "" && !key.Matches(msg, m.keys.Uninstall) {
		m.confirmName = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveDown()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
		m.nextTab()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.prevTab()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filterActive = true
		m.filterText = ""
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.loadPlugins, m.spinner.Tick)

	case key.Matches(msg, m.keys.Info):
		return m, m.openInfo()

	case key.Matches(msg, m.keys.Copy):
		m.copyInfo()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.tab == TabPlugins {
			return m, m.startInstall()
		}
		return m, m.startToggle()

	case key.Matches(msg, m.keys.Toggle):
		return m, m.startToggle()

	case key.Matches(msg, m.keys.Uninstall):
		return m, m.startUninstall()
	}

	return m, nil
}

func (m Model) handleInfoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.infoViewport.LineUp(3)
	case key.Matches(msg, m.keys.Down):
		m.infoViewport.LineDown(3)
	default:
		m.showInfo = false
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.filterActive = false
		m.filterText = ""
		m.clampSelection()
	case tea.KeyEnter:
		m.filterActive = false
	case tea.KeyBackspace:
		if len(m.filterText) > 0 {
			m.filterText = m.filterText[:len(m.filterText)-1]
			m.clampSelection()
		}
	case tea.KeyRunes, tea.KeySpace:
		// A space key already carries its rune.
		if len(msg.Runes) > 0 {
			m.filterText += string(msg.Runes)
		} else {
			m.filterText += " "
		}
		m.clampSelection()
	}
	return m, nil
}

// handleMouse maps clicks and wheel events. Zones are derived from the same
// layout math the renderer uses, so they are always current.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.settings.MouseEnabled || m.showInfo || m.showHelp || m.showPreflight {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveUp()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveDown()
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		return m.handleClick(msg.X, msg.Y)
	}
	return m, nil
}

func (m Model) handleClick(x, y int) (tea.Model, tea.Cmd) {
	if y == tabRowY {
		zones := m.tabZones()
		for t := Tab(0); t < tabCount; t++ {
			if zones[t].contains(x) {
				m.switchTab(t)
				return m, nil
			}
		}
		return m, nil
	}

	if y >= listTopY && y < listTopY+m.viewportRows() && x < m.listPaneWidth() {
		row := m.offset[m.tab] + (y - listTopY)
		if row >= 0 && row < len(m.visible()) {
			m.selected[m.tab] = row
			m.ensureVisible()
			// A left click on the Plugins tab installs the clicked row.
			if m.tab == TabPlugins {
				return m, m.startInstall()
			}
		}
	}
	return m, nil
}

// tabZones computes the clickable x ranges of the tab labels, fresh from the
// current labels and item counts.
func (m *Model) tabZones() [tabCount]zone {
	var zones [tabCount]zone
	x := 2 // leading indent
	for t := Tab(0); t < tabCount; t++ {
		w := lipgloss.Width(m.renderTabLabel(t))
		zones[t] = zone{x0: x, x1: x + w}
		x += w + 3 // " │ " separator
	}
	return zones
}

func (m *Model) renderTabLabel(t Tab) string {
	label := fmt.Sprintf("%s (%d)", tabLabels[t], len(m.items[t]))
	if t == m.tab {
		return activeTabStyle.Render(label)
	}
	return inactiveTabStyle.Render(label)
}

func (m *Model) listPaneWidth() int {
	w := m.width / 2
	if w < 30 {
		w = 30
	}
	return w
}

// Operations

func (m *Model) startInstall() tea.Cmd {
	p := m.current()
	if p == nil || m.busy {
		return nil
	}
	if p.Installed {
		m.setStatus(p.Title + " is already installed")
		return nil
	}
	m.busy = true
	m.setStatus("Installing " + p.Title + "...")
	orch, pl := m.orch, *p
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		report, err := orch.Install(context.Background(), pl)
		return opDoneMsg{report: report, err: err}
	})
}

func (m *Model) startUninstall() tea.Cmd {
	p := m.current()
	if p == nil || m.busy {
		return nil
	}
	if !p.Installed {
		m.setStatus(p.Title + " is not installed")
		return nil
	}
	if m.settings.ConfirmUninstall {
		if m.confirmName != p.Name || time.Since(m.confirmTime) > 3*time.Second {
			m.confirmName = p.Name
			m.confirmTime = time.Now()
			m.setStatus("Press u again to uninstall " + p.Title)
			return nil
		}
		m.confirmName = ""
	}
	m.busy = true
	m.setStatus("Uninstalling " + p.Title + "...")
	orch, pl := m.orch, *p
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		report, err := orch.Uninstall(context.Background(), pl)
		return opDoneMsg{report: report, err: err}
	})
}

func (m *Model) startToggle() tea.Cmd {
	p := m.current()
	if p == nil || m.busy {
		return nil
	}
	if !p.Installed {
		m.setStatus(p.Title + " is not installed")
		return nil
	}
	if p.SectionTitle == "" {
		m.setStatus(p.Title + " has no config section to toggle")
		return nil
	}
	m.busy = true
	m.setStatus("Toggling " + p.Title + "...")
	orch, pl := m.orch, *p
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		_, report, err := orch.Toggle(context.Background(), pl)
		return opDoneMsg{report: report, err: err}
	})
}

// Info overlay

func (m *Model) openInfo() tea.Cmd {
	p := m.current()
	if p == nil {
		return nil
	}
	m.showInfo = true
	m.infoViewport.SetContent(m.buildInfo(*p))
	m.infoViewport.GotoTop()
	return nil
}

func (m *Model) buildInfo(p plugin.Plugin) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.Title) + "\n\n")
	b.WriteString(mutedStyle.Render("name     ") + p.Name + "\n")
	if p.Variant != "" {
		b.WriteString(mutedStyle.Render("variant  ") + variantBadge.Render(p.Variant) + "\n")
	}
	state := "available"
	if p.Installed {
		state = "installed"
		if p.SectionTitle != "" {
			state += ", section " + onOff(p.SectionEnabled)
		}
	}
	b.WriteString(mutedStyle.Render("state    ") + state + "\n")
	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}

	if path, ok := p.ReadmePath(); ok {
		if data, err := os.ReadFile(path); err == nil {
			rendered := string(data)
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(m.infoViewport.Width-2),
			)
			if err == nil {
				if out, rerr := renderer.Render(string(data)); rerr == nil {
					rendered = out
				}
			}
			b.WriteString("\n" + rendered)
		}
	}
	return b.String()
}

func (m *Model) copyInfo() {
	p := m.current()
	if p == nil {
		return
	}
	text := p.Title + "\n" + p.Name
	if p.Description != "" {
		text += "\n" + p.Description
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus("Copy failed: " + err.Error())
		return
	}
	m.setStatus("Copied " + p.Title + " info to clipboard")
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// View renders one frame.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return "\n" + m.help.FullHelpView(m.keys.FullHelp())
	}
	if m.showPreflight {
		return m.renderPreflight()
	}
	if m.showInfo {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			"  "+LogoCompact(),
			"",
			activePaneStyle.Width(m.width-4).Render(m.infoViewport.View()),
			mutedStyle.Render("  ↑/↓ scroll · any key closes"),
		)
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), " ", m.renderDetails())

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.renderHeader(),
		"",
		m.renderTabBar(),
		main,
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	header := "  " + LogoCompact() + " " + mutedStyle.Render("v"+m.version)

	if m.loading || m.busy {
		header += "  " + m.spinner.View()
	}
	if m.checks != nil && m.checks.HasWarnings {
		header += "  " + warnStyle.Render("⚠ environment warnings")
	}
	if m.statusMessage != "" && time.Since(m.statusTime) < 3*time.Second {
		header += "  " + successStyle.Render(m.statusMessage)
	}
	return header
}

func (m *Model) renderTabBar() string {
	parts := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		parts = append(parts, m.renderTabLabel(t))
	}
	bar := "  " + strings.Join(parts, mutedStyle.Render(" │ "))
	if m.filterActive || m.filterText != "" {
		bar += mutedStyle.Render("   /") + m.filterText
		if m.filterActive {
			bar += selectedStyle.Render("▌")
		}
	}
	return bar
}

func (m *Model) renderList() string {
	rows := m.viewportRows()
	items := m.visible()

	var lines []string
	start := m.offset[m.tab]
	end := start + rows
	if end > len(items) {
		end = len(items)
	}
	width := m.listPaneWidth() - 8

	for i := start; i < end; i++ {
		p := items[i]
		title := runewidth.Truncate(p.Title, width, "…")

		var dot string
		switch {
		case !p.Installed:
			dot = offStyle.Render("○")
		case p.SectionTitle != "" && !p.SectionEnabled:
			dot = warnStyle.Render("◐")
		default:
			dot = onStyle.Render("●")
		}

		var badge string
		if p.Variant != "" {
			badge = " " + variantBadge.Render("⇄")
		}

		if i == m.selected[m.tab] {
			lines = append(lines, " "+selectedStyle.Render("▶")+" "+dot+" "+selectedStyle.Render(title)+badge)
		} else {
			lines = append(lines, "   "+dot+" "+title+badge)
		}
	}

	if len(lines) == 0 {
		if m.loading {
			lines = append(lines, mutedStyle.Render("  Scanning plugins..."))
		} else if m.filterText != "" {
			lines = append(lines, mutedStyle.Render("  No matches for /"+m.filterText))
		} else if m.tab == TabInstalled {
			lines = append(lines, mutedStyle.Render("  Nothing installed yet"))
		} else {
			lines = append(lines, mutedStyle.Render("  No plugins found"))
		}
	}

	for len(lines) < rows {
		lines = append(lines, "")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return activePaneStyle.Width(m.listPaneWidth() - 2).Render(content)
}

func (m *Model) renderDetails() string {
	width := m.width - m.listPaneWidth() - 5
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	if p := m.current(); p != nil {
		b.WriteString(titleStyle.Render(p.Title) + "\n")
		if m.settings.ShowDescriptions && p.Description != "" {
			desc := p.Description
			b.WriteString(mutedStyle.Width(width - 4).Render(desc) + "\n")
		}
		if p.Variant != "" {
			b.WriteString(variantBadge.Render("⇄ variant of "+p.Variant) + "\n")
		}
		if p.Installed && p.SectionTitle != "" {
			b.WriteString(mutedStyle.Render(p.SectionTitle+" ") + StateDot(p.SectionEnabled) + " " + onOff(p.SectionEnabled) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("ACTIVITY") + "\n")
	if len(m.activity) == 0 {
		b.WriteString(logEmptyStyle.Render("Nothing yet. Install or toggle a plugin."))
	} else {
		tail := m.activity
		max := m.viewportRows() - 8
		if max < 3 {
			max = 3
		}
		if len(tail) > max {
			tail = tail[len(tail)-max:]
		}
		b.WriteString(strings.Join(tail, "\n"))
	}

	return inactivePaneStyle.Width(width).Height(m.viewportRows()).Render(b.String())
}

func (m *Model) renderFooter() string {
	return "  " + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderPreflight() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ENVIRONMENT") + "\n\n")
	for _, c := range m.checks.Checks {
		var icon string
		switch c.Status {
		case preflight.StatusOK:
			icon = successStyle.Render("✓")
		case preflight.StatusWarning:
			icon = warnStyle.Render("⚠")
		default:
			icon = errorStyle.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %-18s %s\n", icon, c.Name, mutedStyle.Render(c.Message)))
	}
	b.WriteString("\n" + mutedStyle.Render("  any key continues · q quits"))
	return activePaneStyle.Width(m.width - 4).Render(b.String())
}
