package domain

import (
	"fmt"

	"prepdeck/internal/platform/csvtable"
	apperrors "prepdeck/internal/platform/errors"
)

// Mapper turns parsed sheet rows into cards of one deck.
type Mapper func(rows []csvtable.Row) []Card

var mappers = map[DeckName]Mapper{
	DeckLeetCode:     MapCodingRows,
	DeckSystemDesign: MapSystemDesignRows,
}

func MapperFor(deck DeckName) (Mapper, error) {
	m, ok := mappers[deck]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownDeck, deck)
	}
	return m, nil
}
