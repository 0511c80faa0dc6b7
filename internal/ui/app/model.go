package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	deckdto "prepdeck/internal/modules/deck/dto"
	practicedto "prepdeck/internal/modules/practice/dto"
	"prepdeck/internal/ui/components"
	"prepdeck/internal/ui/theme"
	practiceview "prepdeck/internal/ui/views/practice"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// The root model only forwards these to the per-deck views.

type practicePort interface {
	Current(ctx context.Context, deck string) (practicedto.CurrentOutput, error)
	Next(ctx context.Context, deck string) (practicedto.CurrentOutput, error)
	Reveal(ctx context.Context, deck string) (practicedto.CurrentOutput, error)
	SetWeight(ctx context.Context, deck, status string, value float64) (practicedto.StateOutput, error)
	Filter(ctx context.Context, deck, status string) (practicedto.StateOutput, error)
	ExcludeGreen(ctx context.Context, deck string) (practicedto.StateOutput, error)
}

type deckPort interface {
	Load(ctx context.Context, deck string, refresh bool) (deckdto.LoadOutput, error)
	Import(ctx context.Context, deck, path string) (deckdto.ImportOutput, error)
	Summary(ctx context.Context, deck string) (deckdto.DeckSummaryOutput, error)
}

// DeckTab names one tab: the deck id and its display label.
type DeckTab struct {
	Deck  string
	Label string
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Next         key.Binding
	Reveal       key.Binding
	Filter       key.Binding
	ExcludeGreen key.Binding
	Reload       key.Binding
	Tab          key.Binding
	Help         key.Binding
	Palette      key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next card")),
		Reveal:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "reveal notes")),
		Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		ExcludeGreen: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "exclude green")),
		Reload:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload deck")),
		Tab:          key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch deck")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:      key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:         key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Reveal, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Reveal, k.Reload},
		{k.Filter, k.ExcludeGreen},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns deck tab routing, the help
// overlay and the command palette; each deck tab is its own sub-view.
type Model struct {
	views     []practiceview.Model
	activeTab int
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(practice practicePort, decks deckPort, tabs []DeckTab) Model {
	views := make([]practiceview.Model, 0, len(tabs))
	for _, t := range tabs {
		views = append(views, practiceview.New(practice, decks, t.Deck, t.Label))
	}
	return Model{
		views:   views,
		keys:    defaultKeys(),
		help:    help.New(),
		palette: components.NewPalette(),
		status:  "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.views))
	for _, v := range m.views {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}
	if len(m.views) == 0 {
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		return m, m.propagateSize()

	case practiceview.LoadedMsg, practiceview.CurrentMsg, practiceview.StateMsg, spinner.TickMsg:
		return m.broadcast(msg)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		active := &m.views[m.activeTab]
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case msg.String() == "tab":
			m.activeTab = (m.activeTab + 1) % len(m.views)
			m.status = m.views[m.activeTab].Label()
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + len(m.views) - 1) % len(m.views)
			m.status = m.views[m.activeTab].Label()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Next):
			return m, active.Next()
		case key.Matches(msg, m.keys.Reveal):
			return m, active.Reveal()
		case key.Matches(msg, m.keys.Filter):
			return m, active.CycleFilter()
		case key.Matches(msg, m.keys.ExcludeGreen):
			return m, active.ToggleExcludeGreen()
		case key.Matches(msg, m.keys.Reload):
			return m, active.Reload()
		}
	}

	var cmd tea.Cmd
	m.views[m.activeTab], cmd = m.views[m.activeTab].Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case len(m.views) == 0:
		content = theme.Muted.Render("no decks configured")
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.views[m.activeTab].View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, len(m.views))
	for i, v := range m.views {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + v.Label() + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + v.Label() + " ")
		}
	}
	bar := "prepdeck  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if len(m.views) > 0 {
		if msg := m.views[m.activeTab].Message(); msg != "" {
			left = msg
		}
	}
	right := theme.Muted.Render("n:next  space:reveal  f:filter  g:green  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	active := &m.views[m.activeTab]

	switch parts[0] {
	case "next":
		return m, active.Next()

	case "reveal":
		return m, active.Reveal()

	case "weight":
		if len(parts) != 3 {
			m.status = "usage: weight <red|yellow|green> <value>"
			return m, nil
		}
		v, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			m.status = "invalid weight: " + parts[2]
			return m, nil
		}
		return m, active.SetWeight(parts[1], v)

	case "filter":
		if len(parts) != 2 {
			m.status = "usage: filter <all|red|yellow|green>"
			return m, nil
		}
		return m, active.Filter(parts[1])

	case "exclude-green":
		return m, active.ToggleExcludeGreen()

	case "import":
		path := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if path == "" {
			m.status = "usage: import <path>"
			return m, nil
		}
		return m, active.Import(path)

	case "reload":
		return m, active.Reload()

	case "deck":
		if len(parts) != 2 {
			m.status = "usage: deck <name>"
			return m, nil
		}
		for i, v := range m.views {
			if v.Deck() == parts[1] {
				m.activeTab = i
				m.status = v.Label()
				return m, nil
			}
		}
		m.status = "unknown deck: " + parts[1]

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// broadcast hands async results to every deck view; each ignores messages
// for other decks.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(m.views))
	for i := range m.views {
		var cmd tea.Cmd
		m.views[i], cmd = m.views[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) propagateSize() tea.Cmd {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	cmds := make([]tea.Cmd, 0, len(m.views))
	for i := range m.views {
		var cmd tea.Cmd
		m.views[i], cmd = m.views[i].Update(sz)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
