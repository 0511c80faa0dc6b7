package domain

import (
	"fmt"
	"math"
	"strings"

	deckdomain "prepdeck/internal/modules/deck/domain"
	apperrors "prepdeck/internal/platform/errors"
)

// DeckState is the practice position on one deck: how draws are weighted and
// filtered, which card is showing and whether its notes are visible.
type DeckState struct {
	Weights       deckdomain.Weights `yaml:"weights"`
	Filters       deckdomain.Filters `yaml:"filters"`
	CurrentCardID string             `yaml:"current_card_id,omitempty"`
	Revealed      bool               `yaml:"revealed"`
}

// State holds every deck's practice position.
type State struct {
	Decks map[deckdomain.DeckName]DeckState `yaml:"decks"`
}

func NewDeckState(weights deckdomain.Weights) DeckState {
	return DeckState{
		Weights: weights,
		Filters: deckdomain.Filters{Status: deckdomain.StatusFilterAll},
	}
}

// Deck returns the state for deck, falling back to fresh state built on
// defaults when none was saved.
func (s State) Deck(deck deckdomain.DeckName, defaults deckdomain.Weights) DeckState {
	if ds, ok := s.Decks[deck]; ok {
		if ds.Filters.Status == "" {
			ds.Filters.Status = deckdomain.StatusFilterAll
		}
		return ds
	}
	return NewDeckState(defaults)
}

func (s *State) Put(deck deckdomain.DeckName, ds DeckState) {
	if s.Decks == nil {
		s.Decks = map[deckdomain.DeckName]DeckState{}
	}
	s.Decks[deck] = ds
}

// WithWeight sets one status weight. NaN and infinities are rejected and
// negatives clamp to 0.
func (ds DeckState) WithWeight(status deckdomain.Status, value float64) (DeckState, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ds, fmt.Errorf("%w: weight must be a finite number", apperrors.ErrInvalidInput)
	}
	value = math.Max(0, value)
	switch status {
	case deckdomain.StatusRed:
		ds.Weights.Red = value
	case deckdomain.StatusYellow:
		ds.Weights.Yellow = value
	case deckdomain.StatusGreen:
		ds.Weights.Green = value
	default:
		return ds, fmt.Errorf("%w: status %q", apperrors.ErrInvalidInput, status)
	}
	return ds, nil
}

func (ds DeckState) WithStatusFilter(f deckdomain.StatusFilter) DeckState {
	ds.Filters.Status = f
	return ds
}

func (ds DeckState) WithExcludeGreenToggled() DeckState {
	ds.Filters.ExcludeGreen = !ds.Filters.ExcludeGreen
	return ds
}

// WithCard shows cardID with notes hidden. An empty id clears the card.
func (ds DeckState) WithCard(cardID string) DeckState {
	ds.CurrentCardID = cardID
	ds.Revealed = false
	return ds
}

func (ds DeckState) WithRevealToggled() (DeckState, error) {
	if ds.CurrentCardID == "" {
		return ds, apperrors.ErrNoCurrentCard
	}
	ds.Revealed = !ds.Revealed
	return ds, nil
}

// ParseStatus accepts red, yellow or green in any case.
func ParseStatus(raw string) (deckdomain.Status, error) {
	s := deckdomain.Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range deckdomain.Statuses {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: status %q", apperrors.ErrInvalidInput, raw)
}
