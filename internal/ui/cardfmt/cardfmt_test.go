package cardfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	deckdto "prepdeck/internal/modules/deck/dto"
	"prepdeck/internal/ui/cardfmt"
)

func sampleCard() deckdto.CardOutput {
	return deckdto.CardOutput{
		ID:          "1",
		Deck:        "leetcode",
		Status:      "red",
		Title:       "1. Two Sum",
		Description: "Find two indices.",
		Link:        "https://leetcode.com/problems/two-sum/",
		Meta:        map[string]string{"Times Submitted": "3"},
		Notes: []deckdto.NoteOutput{
			{Label: "Takeaway", Value: "hash map of complements"},
			{Label: "Time Complexity", Value: "O(n)"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for raw, want := range map[string]cardfmt.Format{"": cardfmt.FormatText, "JSON": cardfmt.FormatJSON, "md": cardfmt.FormatMarkdown} {
		if got, err := cardfmt.ParseFormat(raw); err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q %v", raw, got, err)
		}
	}
	if _, err := cardfmt.ParseFormat("html"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestMarkdownHasFrontmatterAndSections(t *testing.T) {
	t.Parallel()
	doc, err := cardfmt.Markdown(sampleCard(), true)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	header, body, ok := strings.Cut(strings.TrimPrefix(doc, "---\n"), "\n---\n")
	if !ok {
		t.Fatalf("missing frontmatter:\n%s", doc)
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		t.Fatalf("decode frontmatter: %v", err)
	}
	if meta["id"] != "1" || meta["status"] != "red" || meta["link"] != "https://leetcode.com/problems/two-sum/" {
		t.Fatalf("unexpected frontmatter %v", meta)
	}
	for _, want := range []string{"# 1. Two Sum", "Find two indices.", "## Takeaway\n\nhash map of complements", "## Time Complexity"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}

	hidden := cardfmt.Body(sampleCard(), false)
	if strings.Contains(hidden, "## Takeaway") {
		t.Fatalf("notes must be left out when hidden:\n%s", hidden)
	}
}

func TestWriteJSONAndText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := cardfmt.Write(&buf, sampleCard(), cardfmt.FormatJSON, cardfmt.Options{}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var decoded deckdto.CardOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.Notes[1].Value != "O(n)" {
		t.Fatalf("unexpected json %s", buf.String())
	}

	plain := cardfmt.Text(sampleCard(), cardfmt.Options{})
	if !strings.HasPrefix(plain, "[RED] 1. Two Sum\n") || strings.Contains(plain, "\x1b[") {
		t.Fatalf("unexpected plain text:\n%q", plain)
	}
	if !strings.Contains(plain, "2 note sections hidden") || !strings.Contains(plain, "Times Submitted: 3") {
		t.Fatalf("unexpected plain text:\n%s", plain)
	}
	revealed := cardfmt.Text(sampleCard(), cardfmt.Options{Notes: true})
	if !strings.Contains(revealed, "Takeaway\nhash map of complements") {
		t.Fatalf("expected notes:\n%s", revealed)
	}
	if colored := cardfmt.Badge("green", true); !strings.Contains(colored, "\x1b[") {
		t.Fatalf("expected ANSI codes in colored badge, got %q", colored)
	}
}
