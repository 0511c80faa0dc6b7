package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"prepdeck/internal/platform/csvtable"
)

// keyPointSeparator matches the "- SEPARATOR -" marker the sheet writes
// between key points, with hyphen, en or em dashes.
var keyPointSeparator = regexp.MustCompile(`\s*[-–—]\s*SEPARATOR\s*[-–—]\s*`)

// MapSystemDesignRows maps system-design sheet rows onto cards. Rows without a
// question produce no card.
func MapSystemDesignRows(rows []csvtable.Row) []Card {
	cards := make([]Card, 0, len(rows))
	for i, row := range rows {
		title := row.Value("System Question")
		if title == "" {
			continue
		}
		points := splitKeyPoints(row.Value("Key Points"))
		sections := make([]NoteSection, 0, len(points))
		for n, point := range points {
			if point == "" {
				continue
			}
			sections = append(sections, NoteSection{Label: fmt.Sprintf("Key Point %d", n+1), Value: point})
		}
		cards = append(cards, Card{
			ID:          hashID(fmt.Sprintf("%s-%d", title, i)),
			Deck:        DeckSystemDesign,
			Status:      NormalizeStatus(row.Value("Familiarity")),
			Title:       title,
			Description: row.Value("Description"),
			Notes:       Notes{Sections: sections},
		})
	}
	return cards
}

func splitKeyPoints(value string) []string {
	cleaned := strings.ReplaceAll(value, "\r", "\n")
	if cleaned == "" {
		return nil
	}
	var out []string
	for _, block := range keyPointSeparator.Split(cleaned, -1) {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}

// hashID is djb2 with xor over UTF-16 code units in 32-bit arithmetic,
// rendered as the base-36 magnitude. Ids stay stable across re-parses of the
// same sheet.
func hashID(input string) string {
	var h int32 = 5381
	for _, unit := range utf16.Encode([]rune(input)) {
		h = h*33 ^ int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
