package cardfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	deckdto "prepdeck/internal/modules/deck/dto"
	"prepdeck/internal/platform/markdown"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q (text|json|markdown)", raw)
	}
}

// Options controls text output. Notes are always part of JSON and Markdown.
type Options struct {
	Notes bool
	Color bool
}

func Write(w io.Writer, card deckdto.CardOutput, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(card)
	case FormatMarkdown:
		doc, err := Markdown(card, true)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, doc)
		return err
	default:
		_, err := io.WriteString(w, Text(card, opts))
		return err
	}
}

type frontmatter struct {
	ID     string            `yaml:"id"`
	Deck   string            `yaml:"deck"`
	Status string            `yaml:"status"`
	Link   string            `yaml:"link,omitempty"`
	Meta   map[string]string `yaml:"meta,omitempty"`
}

// Markdown renders card as a document with a YAML header. Note sections are
// included when notes is set.
func Markdown(card deckdto.CardOutput, notes bool) (string, error) {
	return markdown.RenderFrontmatter(frontmatter{
		ID:     card.ID,
		Deck:   card.Deck,
		Status: card.Status,
		Link:   card.Link,
		Meta:   card.Meta,
	}, Body(card, notes))
}

// Body is the Markdown document without its header.
func Body(card deckdto.CardOutput, notes bool) string {
	var sections []markdown.Section
	if notes {
		sections = make([]markdown.Section, 0, len(card.Notes))
		for _, n := range card.Notes {
			sections = append(sections, markdown.Section{Heading: n.Label, Body: n.Value})
		}
	}
	return markdown.RenderSections(card.Title, card.Description, sections)
}

func Text(card deckdto.CardOutput, opts Options) string {
	label := paint(opts.Color, color.FgCyan)
	value := paint(opts.Color, color.FgHiWhite)
	muted := paint(opts.Color, color.Faint)

	var sb strings.Builder
	sb.WriteString(Badge(card.Status, opts.Color) + " " + value.Sprint(card.Title) + "\n")
	sb.WriteString(label.Sprint("ID:   ") + value.Sprint(card.ID) + "\n")
	if card.Link != "" {
		sb.WriteString(label.Sprint("Link: ") + value.Sprint(card.Link) + "\n")
	}
	for _, k := range sortedKeys(card.Meta) {
		sb.WriteString(label.Sprint(k+": ") + value.Sprint(card.Meta[k]) + "\n")
	}
	if card.Description != "" {
		sb.WriteString("\n" + card.Description + "\n")
	}
	switch {
	case len(card.Notes) == 0:
	case !opts.Notes:
		sb.WriteString("\n" + muted.Sprintf("%d note sections hidden", len(card.Notes)) + "\n")
	default:
		for _, n := range card.Notes {
			sb.WriteString("\n" + label.Sprint(n.Label) + "\n" + n.Value + "\n")
		}
	}
	return sb.String()
}

// Badge renders a status as a bracketed, colored tag.
func Badge(status string, colored bool) string {
	attr := color.FgYellow
	switch status {
	case "red":
		attr = color.FgRed
	case "green":
		attr = color.FgGreen
	}
	return paint(colored, attr, color.Bold).Sprintf("[%s]", strings.ToUpper(status))
}

func paint(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
