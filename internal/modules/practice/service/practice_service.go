package service

import (
	"context"
	"log/slog"

	deckdomain "prepdeck/internal/modules/deck/domain"
	"prepdeck/internal/modules/practice/domain"
	practiceout "prepdeck/internal/modules/practice/port/out"
)

type PracticeService struct {
	store    practiceout.StateStore
	defaults map[deckdomain.DeckName]deckdomain.Weights
	logger   *slog.Logger
}

func NewPracticeService(store practiceout.StateStore, defaults map[deckdomain.DeckName]deckdomain.Weights, logger *slog.Logger) *PracticeService {
	return &PracticeService{store: store, defaults: defaults, logger: logger}
}

func (s *PracticeService) Get(ctx context.Context, deck deckdomain.DeckName) (domain.DeckState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.DeckState{}, err
	}
	return state.Deck(deck, s.defaults[deck]), nil
}

// Update applies fn to the deck's state and persists the result. An fn error
// leaves the stored state untouched.
func (s *PracticeService) Update(ctx context.Context, deck deckdomain.DeckName, fn func(domain.DeckState) (domain.DeckState, error)) (domain.DeckState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.DeckState{}, err
	}
	next, err := fn(state.Deck(deck, s.defaults[deck]))
	if err != nil {
		return domain.DeckState{}, err
	}
	state.Put(deck, next)
	if err := s.store.Save(ctx, state); err != nil {
		return domain.DeckState{}, err
	}
	s.logger.Debug("practice state saved", "deck", deck, "card", next.CurrentCardID, "revealed", next.Revealed)
	return next, nil
}
