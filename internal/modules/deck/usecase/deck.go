package usecase

import (
	"context"
	"fmt"
	"math"

	"prepdeck/internal/modules/deck/domain"
	"prepdeck/internal/modules/deck/dto"
	deckin "prepdeck/internal/modules/deck/port/in"
	"prepdeck/internal/modules/deck/service"
	apperrors "prepdeck/internal/platform/errors"
)

type Interactor struct {
	svc *service.DeckService
}

func NewInteractor(svc *service.DeckService) deckin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Load(ctx context.Context, input dto.LoadInput) (dto.LoadOutput, error) {
	deck, err := domain.ParseDeck(input.Deck)
	if err != nil {
		return dto.LoadOutput{}, err
	}
	res, err := i.svc.Load(ctx, deck, input.Refresh)
	if err != nil {
		return dto.LoadOutput{}, err
	}
	return dto.LoadOutput{Deck: string(deck), Origin: string(res.Origin), Count: len(res.Cards), ParseErrors: res.ParseErrors}, nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error) {
	deck, err := domain.ParseDeck(input.Deck)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	cards, err := i.svc.Import(ctx, deck, input.Path)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	return dto.ImportOutput{Deck: string(deck), Path: input.Path, Count: len(cards)}, nil
}

func (i *Interactor) Invalidate(ctx context.Context, raw string) error {
	deck, err := domain.ParseDeck(raw)
	if err != nil {
		return err
	}
	return i.svc.Invalidate(ctx, deck)
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.CardOutput, error) {
	deck, err := domain.ParseDeck(input.Deck)
	if err != nil {
		return nil, err
	}
	filters, err := toFilters(input.Filters)
	if err != nil {
		return nil, err
	}
	cards, err := i.svc.List(ctx, deck, filters)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CardOutput, 0, len(cards))
	for _, c := range cards {
		out = append(out, ToCardOutput(c))
	}
	return out, nil
}

func (i *Interactor) Summary(ctx context.Context, raw string) (dto.DeckSummaryOutput, error) {
	deck, err := domain.ParseDeck(raw)
	if err != nil {
		return dto.DeckSummaryOutput{}, err
	}
	cards, err := i.svc.List(ctx, deck, domain.Filters{Status: domain.StatusFilterAll})
	if err != nil {
		return dto.DeckSummaryOutput{}, err
	}
	out := dto.DeckSummaryOutput{Deck: string(deck), Label: deck.Label(), Total: len(cards)}
	for _, c := range cards {
		switch c.Status {
		case domain.StatusRed:
			out.Red++
		case domain.StatusYellow:
			out.Yellow++
		case domain.StatusGreen:
			out.Green++
		}
	}
	return out, nil
}

func (i *Interactor) Draw(ctx context.Context, input dto.DrawInput) (dto.CardOutput, error) {
	deck, err := domain.ParseDeck(input.Deck)
	if err != nil {
		return dto.CardOutput{}, err
	}
	filters, err := toFilters(input.Filters)
	if err != nil {
		return dto.CardOutput{}, err
	}
	weights, err := toWeights(input.Weights)
	if err != nil {
		return dto.CardOutput{}, err
	}
	card, err := i.svc.Draw(ctx, deck, filters, weights)
	if err != nil {
		return dto.CardOutput{}, err
	}
	return ToCardOutput(card), nil
}

func (i *Interactor) GetCard(ctx context.Context, raw, id string) (dto.CardOutput, error) {
	deck, err := domain.ParseDeck(raw)
	if err != nil {
		return dto.CardOutput{}, err
	}
	card, err := i.svc.GetCard(ctx, deck, id)
	if err != nil {
		return dto.CardOutput{}, err
	}
	return ToCardOutput(card), nil
}

func toFilters(in dto.FilterInput) (domain.Filters, error) {
	status, err := domain.ParseStatusFilter(in.Status)
	if err != nil {
		return domain.Filters{}, err
	}
	return domain.Filters{Status: status, ExcludeGreen: in.ExcludeGreen}, nil
}

func toWeights(in dto.WeightsInput) (domain.Weights, error) {
	for _, v := range []float64{in.Red, in.Yellow, in.Green} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Weights{}, fmt.Errorf("%w: weights must be finite numbers", apperrors.ErrInvalidInput)
		}
	}
	return domain.Weights{Red: in.Red, Yellow: in.Yellow, Green: in.Green}, nil
}

// ToCardOutput converts a domain card to its transport shape.
func ToCardOutput(c domain.Card) dto.CardOutput {
	notes := make([]dto.NoteOutput, 0, len(c.Notes.Sections))
	for _, s := range c.Notes.Sections {
		notes = append(notes, dto.NoteOutput{Label: s.Label, Value: s.Value})
	}
	return dto.CardOutput{
		ID:          c.ID,
		Deck:        string(c.Deck),
		Status:      string(c.Status),
		Title:       c.Title,
		Description: c.Description,
		Link:        c.Link,
		Meta:        c.Meta,
		Notes:       notes,
	}
}
