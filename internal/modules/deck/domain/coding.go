package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"prepdeck/internal/platform/csvtable"
	"prepdeck/internal/platform/slug"
)

const problemURLFormat = "https://leetcode.com/problems/%s/"

var numberedTitle = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)

var codingNoteFields = []string{
	"Reason for fail",
	"Takeaway",
	"Follow Up",
	"Time Complexity",
	"Space Complexity",
}

// MapCodingRows maps coding-problem sheet rows onto cards.
func MapCodingRows(rows []csvtable.Row) []Card {
	cards := make([]Card, 0, len(rows))
	for i, row := range rows {
		card := mapCodingRow(row, i)
		if strings.TrimSpace(card.Title) == "" {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

func mapCodingRow(row csvtable.Row, index int) Card {
	id := row.Value("ID")
	if id == "" {
		id = strconv.Itoa(index + 1)
	}
	title := row.Value("Name")
	if title == "" {
		title = id + "."
	}

	link := row.Value("Link")
	if link == "" {
		link = problemLink(title)
	}

	var meta map[string]string
	if times := row.Value("Times Submitted"); times != "" {
		meta = map[string]string{"Times Submitted": times}
	}

	sections := make([]NoteSection, 0, len(codingNoteFields))
	for _, field := range codingNoteFields {
		if v := row.Value(field); v != "" {
			sections = append(sections, NoteSection{Label: field, Value: v})
		}
	}

	return Card{
		ID:          id,
		Deck:        DeckLeetCode,
		Status:      codingStatus(row),
		Title:       title,
		Description: row.Value("Description"),
		Link:        link,
		Meta:        meta,
		Notes:       Notes{Sections: sections},
	}
}

// codingStatus prefers an explicit Status cell, then the legacy ID code.
func codingStatus(row csvtable.Row) Status {
	if raw, _ := row.Get("Status"); raw != "" {
		return NormalizeStatus(raw)
	}
	id, _ := row.Get("ID")
	if s, ok := legacyStatusFromID(id); ok {
		return s
	}
	return NormalizeStatus("")
}

// problemLink derives the canonical problem URL from a "<n>. <name>" title.
func problemLink(title string) string {
	m := numberedTitle.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	s := slug.Make(m[2])
	if s == "" {
		return ""
	}
	return fmt.Sprintf(problemURLFormat, s)
}
