package usecase

import (
	"context"
	"errors"

	deckdomain "prepdeck/internal/modules/deck/domain"
	deckdto "prepdeck/internal/modules/deck/dto"
	deckin "prepdeck/internal/modules/deck/port/in"
	"prepdeck/internal/modules/practice/domain"
	"prepdeck/internal/modules/practice/dto"
	practicein "prepdeck/internal/modules/practice/port/in"
	"prepdeck/internal/modules/practice/service"
	apperrors "prepdeck/internal/platform/errors"
)

type Interactor struct {
	svc   *service.PracticeService
	decks deckin.Usecase
}

func NewInteractor(svc *service.PracticeService, decks deckin.Usecase) practicein.Usecase {
	return &Interactor{svc: svc, decks: decks}
}

func (i *Interactor) Show(ctx context.Context, raw string) (dto.StateOutput, error) {
	deck, err := deckdomain.ParseDeck(raw)
	if err != nil {
		return dto.StateOutput{}, err
	}
	ds, err := i.svc.Get(ctx, deck)
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toStateOutput(deck, ds), nil
}

func (i *Interactor) SetWeight(ctx context.Context, input dto.SetWeightInput) (dto.StateOutput, error) {
	deck, err := deckdomain.ParseDeck(input.Deck)
	if err != nil {
		return dto.StateOutput{}, err
	}
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return dto.StateOutput{}, err
	}
	ds, err := i.svc.Update(ctx, deck, func(ds domain.DeckState) (domain.DeckState, error) {
		return ds.WithWeight(status, input.Value)
	})
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toStateOutput(deck, ds), nil
}

func (i *Interactor) SetStatusFilter(ctx context.Context, input dto.SetFilterInput) (dto.StateOutput, error) {
	deck, err := deckdomain.ParseDeck(input.Deck)
	if err != nil {
		return dto.StateOutput{}, err
	}
	filter, err := deckdomain.ParseStatusFilter(input.Status)
	if err != nil {
		return dto.StateOutput{}, err
	}
	ds, err := i.svc.Update(ctx, deck, func(ds domain.DeckState) (domain.DeckState, error) {
		return ds.WithStatusFilter(filter), nil
	})
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toStateOutput(deck, ds), nil
}

func (i *Interactor) ToggleExcludeGreen(ctx context.Context, raw string) (dto.StateOutput, error) {
	deck, err := deckdomain.ParseDeck(raw)
	if err != nil {
		return dto.StateOutput{}, err
	}
	ds, err := i.svc.Update(ctx, deck, func(ds domain.DeckState) (domain.DeckState, error) {
		return ds.WithExcludeGreenToggled(), nil
	})
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toStateOutput(deck, ds), nil
}

// Next draws a card with the deck's weights and filters and shows it with
// notes hidden. When nothing matches the current card is cleared and
// ErrNoCards is returned.
func (i *Interactor) Next(ctx context.Context, raw string) (dto.CurrentOutput, error) {
	deck, err := deckdomain.ParseDeck(raw)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	ds, err := i.svc.Get(ctx, deck)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	card, drawErr := i.decks.Draw(ctx, deckdto.DrawInput{
		Deck:    string(deck),
		Filters: deckdto.FilterInput{Status: string(ds.Filters.Status), ExcludeGreen: ds.Filters.ExcludeGreen},
		Weights: deckdto.WeightsInput{Red: ds.Weights.Red, Yellow: ds.Weights.Yellow, Green: ds.Weights.Green},
	})
	if drawErr != nil && !errors.Is(drawErr, apperrors.ErrNoCards) {
		return dto.CurrentOutput{}, drawErr
	}

	ds, err = i.svc.Update(ctx, deck, func(ds domain.DeckState) (domain.DeckState, error) {
		return ds.WithCard(card.ID), nil
	})
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	out := dto.CurrentOutput{State: toStateOutput(deck, ds)}
	if drawErr != nil {
		return out, drawErr
	}
	out.Card = &card
	return out, nil
}

func (i *Interactor) Reveal(ctx context.Context, raw string) (dto.CurrentOutput, error) {
	deck, err := deckdomain.ParseDeck(raw)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	if _, err := i.svc.Update(ctx, deck, func(ds domain.DeckState) (domain.DeckState, error) {
		return ds.WithRevealToggled()
	}); err != nil {
		return dto.CurrentOutput{}, err
	}
	return i.Current(ctx, raw)
}

// Current resolves the shown card against the loaded deck. A card id that no
// longer exists clears the card.
func (i *Interactor) Current(ctx context.Context, raw string) (dto.CurrentOutput, error) {
	deck, err := deckdomain.ParseDeck(raw)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	ds, err := i.svc.Get(ctx, deck)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	if ds.CurrentCardID == "" {
		return dto.CurrentOutput{State: toStateOutput(deck, ds)}, nil
	}

	card, err := i.decks.GetCard(ctx, string(deck), ds.CurrentCardID)
	if errors.Is(err, apperrors.ErrNotFound) {
		ds, err = i.svc.Update(ctx, deck, func(ds domain.DeckState) (domain.DeckState, error) {
			return ds.WithCard(""), nil
		})
		if err != nil {
			return dto.CurrentOutput{}, err
		}
		return dto.CurrentOutput{State: toStateOutput(deck, ds)}, nil
	}
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	return dto.CurrentOutput{State: toStateOutput(deck, ds), Card: &card}, nil
}

func toStateOutput(deck deckdomain.DeckName, ds domain.DeckState) dto.StateOutput {
	return dto.StateOutput{
		Deck:          string(deck),
		Weights:       dto.WeightsOutput{Red: ds.Weights.Red, Yellow: ds.Weights.Yellow, Green: ds.Weights.Green},
		Status:        string(ds.Filters.Status),
		ExcludeGreen:  ds.Filters.ExcludeGreen,
		CurrentCardID: ds.CurrentCardID,
		Revealed:      ds.Revealed,
	}
}
