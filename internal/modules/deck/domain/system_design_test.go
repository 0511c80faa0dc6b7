package domain_test

import (
	"reflect"
	"testing"

	"prepdeck/internal/modules/deck/domain"
	"prepdeck/internal/platform/csvtable"
)

func TestMapSystemDesignRowsSkipsEmptyQuestion(t *testing.T) {
	t.Parallel()
	cards := domain.MapSystemDesignRows([]csvtable.Row{
		csvtable.NewRow("System Question", "  ", "Familiarity", "high"),
		csvtable.NewRow("Familiarity", "low"),
	})
	if len(cards) != 0 {
		t.Fatalf("rows without a question must be skipped, got %+v", cards)
	}
}

func TestMapSystemDesignRowsCard(t *testing.T) {
	t.Parallel()
	cards := domain.MapSystemDesignRows([]csvtable.Row{
		csvtable.NewRow("System Question", "", "Familiarity", "high"),
		csvtable.NewRow(
			"System Question", " Design a URL shortener ",
			"Familiarity", "Low",
			"Description", "Short links at scale",
			"Key Points", "Base62 ids - SEPARATOR - KV store\r\nwith TTL –SEPARATOR– - SEPARATOR - Cache hot keys ",
		),
	})
	if len(cards) != 1 {
		t.Fatalf("expected one card, got %d", len(cards))
	}
	c := cards[0]
	if c.Title != "Design a URL shortener" || c.Status != domain.StatusRed || c.Deck != domain.DeckSystemDesign {
		t.Fatalf("unexpected card %+v", c)
	}
	if c.ID != "qf9kq7" {
		t.Fatalf("id must hash title and row index, got %q", c.ID)
	}
	want := []domain.NoteSection{
		{Label: "Key Point 1", Value: "Base62 ids"},
		{Label: "Key Point 2", Value: "KV store\n\nwith TTL"},
		{Label: "Key Point 3", Value: "Cache hot keys"},
	}
	if !reflect.DeepEqual(c.Notes.Sections, want) {
		t.Fatalf("unexpected sections %+v", c.Notes.Sections)
	}
	if c.Link != "" || c.Meta != nil {
		t.Fatalf("system design cards carry no link or meta: %+v", c)
	}
}

func TestMapSystemDesignRowsStableIDs(t *testing.T) {
	t.Parallel()
	rows := []csvtable.Row{
		csvtable.NewRow("System Question", "Design a URL shortener"),
		csvtable.NewRow("System Question", "Design a URL shortener"),
	}
	first := domain.MapSystemDesignRows(rows)
	second := domain.MapSystemDesignRows(rows)
	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Fatalf("ids changed across parses")
	}
	if first[0].ID != "qf9kq6" {
		t.Fatalf("unexpected id %q", first[0].ID)
	}
	if first[0].ID == first[1].ID {
		t.Fatalf("same title at different rows must get different ids")
	}
}

func TestMapSystemDesignRowsHashUsesUTF16Units(t *testing.T) {
	t.Parallel()
	cards := domain.MapSystemDesignRows([]csvtable.Row{
		csvtable.NewRow("System Question", "Design Twitter — feed"),
	})
	if cards[0].ID != "dn6hfl" {
		t.Fatalf("unexpected id %q", cards[0].ID)
	}
}

func TestMapSystemDesignRowsDefaultsAndEmptyKeyPoints(t *testing.T) {
	t.Parallel()
	cards := domain.MapSystemDesignRows([]csvtable.Row{
		csvtable.NewRow("System Question", "Design a rate limiter", "Key Points", " - SEPARATOR - "),
	})
	c := cards[0]
	if c.Status != domain.StatusYellow {
		t.Fatalf("missing familiarity should default to yellow, got %q", c.Status)
	}
	if len(c.Notes.Sections) != 0 {
		t.Fatalf("separator-only key points yield no sections, got %+v", c.Notes.Sections)
	}
}
