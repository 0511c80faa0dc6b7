package practice

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	deckdto "prepdeck/internal/modules/deck/dto"
	practicedto "prepdeck/internal/modules/practice/dto"
	apperrors "prepdeck/internal/platform/errors"
	"prepdeck/internal/ui/cardfmt"
	"prepdeck/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// Port is the slice of the practice use-case this view drives.
type Port interface {
	Current(ctx context.Context, deck string) (practicedto.CurrentOutput, error)
	Next(ctx context.Context, deck string) (practicedto.CurrentOutput, error)
	Reveal(ctx context.Context, deck string) (practicedto.CurrentOutput, error)
	SetWeight(ctx context.Context, deck, status string, value float64) (practicedto.StateOutput, error)
	Filter(ctx context.Context, deck, status string) (practicedto.StateOutput, error)
	ExcludeGreen(ctx context.Context, deck string) (practicedto.StateOutput, error)
}

// DeckPort loads card data for the view.
type DeckPort interface {
	Load(ctx context.Context, deck string, refresh bool) (deckdto.LoadOutput, error)
	Import(ctx context.Context, deck, path string) (deckdto.ImportOutput, error)
	Summary(ctx context.Context, deck string) (deckdto.DeckSummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoadedMsg reports a finished load or import of Deck.
type LoadedMsg struct {
	Deck    string
	Note    string
	Summary deckdto.DeckSummaryOutput
	Current practicedto.CurrentOutput
	Err     error
}

// CurrentMsg carries the card on screen after next, reveal or a refresh.
type CurrentMsg struct {
	Deck    string
	Current practicedto.CurrentOutput
	Err     error
}

// StateMsg carries updated weights or filters.
type StateMsg struct {
	Deck  string
	State practicedto.StateOutput
	Err   error
}

var filterCycle = []string{"all", "red", "yellow", "green"}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is one deck's practice tab.
type Model struct {
	port     Port
	decks    DeckPort
	deck     string
	label    string
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	loading  bool
	summary  deckdto.DeckSummaryOutput
	state    practicedto.StateOutput
	card     *deckdto.CardOutput
	message  string
	width    int
	height   int
}

func New(port Port, decks DeckPort, deck, label string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		decks:    decks,
		deck:     deck,
		label:    label,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		renderer: newRenderer(0),
		loading:  true,
	}
}

func (m Model) Deck() string  { return m.deck }
func (m Model) Label() string { return m.label }

// Message is the last outcome worth showing in the status bar.
func (m Model) Message() string { return m.message }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(false, ""), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshContent()

	case LoadedMsg:
		if msg.Deck != m.deck {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.message = m.label + ": " + msg.Err.Error()
			m.refreshContent()
			return m, nil
		}
		m.summary = msg.Summary
		m.applyCurrent(msg.Current)
		m.message = msg.Note

	case CurrentMsg:
		if msg.Deck != m.deck {
			return m, nil
		}
		switch {
		case errors.Is(msg.Err, apperrors.ErrNoCards):
			m.applyCurrent(msg.Current)
			m.message = "no cards match the current filters"
		case errors.Is(msg.Err, apperrors.ErrNoCurrentCard):
			m.message = "draw a card first (n)"
		case msg.Err != nil:
			m.message = msg.Err.Error()
		default:
			m.applyCurrent(msg.Current)
			m.message = ""
		}

	case StateMsg:
		if msg.Deck != m.deck {
			return m, nil
		}
		if msg.Err != nil {
			m.message = msg.Err.Error()
			return m, nil
		}
		m.state = msg.State
		m.message = fmt.Sprintf("filter %s  exclude green %s", msg.State.Status, onOff(msg.State.ExcludeGreen))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	if m.loading {
		h := max(m.height-lipgloss.Height(header), 1)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading "+m.label+"…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

// ─── actions ─────────────────────────────────────────────────────────────────

func (m Model) Next() tea.Cmd {
	return func() tea.Msg {
		cur, err := m.port.Next(context.Background(), m.deck)
		return CurrentMsg{Deck: m.deck, Current: cur, Err: err}
	}
}

func (m Model) Reveal() tea.Cmd {
	return func() tea.Msg {
		cur, err := m.port.Reveal(context.Background(), m.deck)
		return CurrentMsg{Deck: m.deck, Current: cur, Err: err}
	}
}

// CycleFilter advances the status filter all → red → yellow → green.
func (m Model) CycleFilter() tea.Cmd {
	next := filterCycle[0]
	for i, f := range filterCycle {
		if f == m.state.Status {
			next = filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return m.Filter(next)
}

func (m Model) Filter(status string) tea.Cmd {
	return func() tea.Msg {
		st, err := m.port.Filter(context.Background(), m.deck, status)
		return StateMsg{Deck: m.deck, State: st, Err: err}
	}
}

func (m Model) ToggleExcludeGreen() tea.Cmd {
	return func() tea.Msg {
		st, err := m.port.ExcludeGreen(context.Background(), m.deck)
		return StateMsg{Deck: m.deck, State: st, Err: err}
	}
}

func (m Model) SetWeight(status string, value float64) tea.Cmd {
	return func() tea.Msg {
		st, err := m.port.SetWeight(context.Background(), m.deck, status, value)
		return StateMsg{Deck: m.deck, State: st, Err: err}
	}
}

// Reload refetches the deck, bypassing caches.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(true, ""), m.spinner.Tick)
}

// Import replaces the deck with a local CSV or XLSX export.
func (m *Model) Import(path string) tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(false, path), m.spinner.Tick)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) loadCmd(refresh bool, importPath string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var note string
		if importPath != "" {
			out, err := m.decks.Import(ctx, m.deck, importPath)
			if err != nil {
				return LoadedMsg{Deck: m.deck, Err: err}
			}
			note = fmt.Sprintf("imported %d cards from %s", out.Count, out.Path)
		} else {
			out, err := m.decks.Load(ctx, m.deck, refresh)
			if err != nil {
				return LoadedMsg{Deck: m.deck, Err: err}
			}
			note = fmt.Sprintf("%s: %d cards (%s)", m.label, out.Count, out.Origin)
			if n := len(out.ParseErrors); n > 0 {
				note += fmt.Sprintf(", %d rows with parse errors", n)
			}
		}
		summary, err := m.decks.Summary(ctx, m.deck)
		if err != nil {
			return LoadedMsg{Deck: m.deck, Err: err}
		}
		cur, err := m.port.Current(ctx, m.deck)
		if err != nil {
			return LoadedMsg{Deck: m.deck, Err: err}
		}
		return LoadedMsg{Deck: m.deck, Note: note, Summary: summary, Current: cur}
	}
}

func (m *Model) applyCurrent(cur practicedto.CurrentOutput) {
	m.state = cur.State
	m.card = cur.Card
	m.refreshContent()
	m.viewport.GotoTop()
}

func (m *Model) resize() {
	// header = 3 lines
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-3, 1)
	m.renderer = newRenderer(m.width - 4)
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.renderCard())
}

func (m Model) renderHeader() string {
	counts := fmt.Sprintf("%d cards  %s %d  %s %d  %s %d",
		m.summary.Total,
		theme.Badge("red"), m.summary.Red,
		theme.Badge("yellow"), m.summary.Yellow,
		theme.Badge("green"), m.summary.Green)
	w := m.state.Weights
	settings := theme.Muted.Render(fmt.Sprintf("weights r=%.2f y=%.2f g=%.2f  filter=%s  exclude-green=%s",
		w.Red, w.Yellow, w.Green, m.state.Status, onOff(m.state.ExcludeGreen)))
	return theme.Title.Render(m.label) + "  " + counts + "\n" + settings + "\n"
}

func (m Model) renderCard() string {
	if m.card == nil {
		return theme.Muted.Render("No card yet. Press n to draw one.")
	}
	c := *m.card
	var sb strings.Builder
	sb.WriteString(theme.Badge(c.Status) + " " + theme.Title.Render(c.Title) + "\n")
	if c.Link != "" {
		sb.WriteString(theme.Muted.Render(c.Link) + "\n")
	}
	for _, k := range slices.Sorted(maps.Keys(c.Meta)) {
		sb.WriteString(theme.Muted.Render(k+": "+c.Meta[k]) + "\n")
	}

	body := cardfmt.Body(c, m.state.Revealed)
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = rendered
		}
	}
	sb.WriteString(body)
	switch {
	case len(c.Notes) == 0:
		sb.WriteString(theme.Muted.Render("(no notes)"))
	case !m.state.Revealed:
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("space: reveal %d notes", len(c.Notes))))
	}
	return sb.String()
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(width, 0)),
	)
	if err != nil {
		return nil
	}
	return r
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
