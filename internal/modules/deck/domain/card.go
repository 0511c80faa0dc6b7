package domain

import (
	"fmt"
	"strings"

	apperrors "prepdeck/internal/platform/errors"
)

type DeckName string

const (
	DeckLeetCode     DeckName = "leetcode"
	DeckSystemDesign DeckName = "system_design"
)

// Decks lists every deck in display order.
var Decks = []DeckName{DeckLeetCode, DeckSystemDesign}

func ParseDeck(raw string) (DeckName, error) {
	d := DeckName(strings.ToLower(strings.TrimSpace(raw)))
	switch d {
	case DeckLeetCode, DeckSystemDesign:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownDeck, raw)
	}
}

func (d DeckName) Label() string {
	switch d {
	case DeckLeetCode:
		return "LeetCode"
	case DeckSystemDesign:
		return "System Design"
	default:
		return string(d)
	}
}

type Status string

const (
	StatusRed    Status = "red"
	StatusYellow Status = "yellow"
	StatusGreen  Status = "green"
)

// Statuses lists every status from weakest to strongest.
var Statuses = []Status{StatusRed, StatusYellow, StatusGreen}

func (s Status) Label() string {
	switch s {
	case StatusRed:
		return "Red"
	case StatusYellow:
		return "Yellow"
	case StatusGreen:
		return "Green"
	default:
		return string(s)
	}
}

type NoteSection struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Notes struct {
	Sections []NoteSection `json:"sections"`
}

// Card is the normalized unit of practice content. Cards are rebuilt on every
// parse and never mutated afterwards.
type Card struct {
	ID          string            `json:"id"`
	Deck        DeckName          `json:"deck"`
	Status      Status            `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Link        string            `json:"link,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	Notes       Notes             `json:"notes"`
}
