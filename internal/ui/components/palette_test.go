package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"prepdeck/internal/ui/components"
)

func typeText(p components.Palette, s string) components.Palette {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func submit(t *testing.T, p components.Palette) (components.Palette, string) {
	t.Helper()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok {
		t.Fatalf("expected submit message")
	}
	return p, msg.Input
}

func TestPaletteSubmitAndHistory(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p = typeText(p, "  weight red 2 ")
	p, got := submit(t, p)
	if got != "weight red 2" || p.Visible() {
		t.Fatalf("unexpected submit %q visible=%v", got, p.Visible())
	}

	p.Open()
	p = typeText(p, "next")
	p, _ = submit(t, p)

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if _, got := submit(t, p); got != "weight red 2" {
		t.Fatalf("expected recalled command, got %q", got)
	}
}

func TestPaletteTabCompletesUniqueCommand(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p = typeText(p, "ex")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if _, got := submit(t, p); got != "exclude-green" {
		t.Fatalf("expected completion, got %q", got)
	}
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(components.PaletteCancelMsg); !ok || p.Visible() {
		t.Fatalf("esc should close the palette")
	}
}
