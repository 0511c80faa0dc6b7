package in

import (
	"context"

	"prepdeck/internal/modules/deck/dto"
	deckin "prepdeck/internal/modules/deck/port/in"
)

type CLIHandler struct {
	usecase deckin.Usecase
}

func NewCLIHandler(usecase deckin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Load(ctx context.Context, deck string, refresh bool) (dto.LoadOutput, error) {
	return h.usecase.Load(ctx, dto.LoadInput{Deck: deck, Refresh: refresh})
}

func (h CLIHandler) Import(ctx context.Context, deck, path string) (dto.ImportOutput, error) {
	return h.usecase.Import(ctx, dto.ImportInput{Deck: deck, Path: path})
}

func (h CLIHandler) ClearCache(ctx context.Context, deck string) error {
	return h.usecase.Invalidate(ctx, deck)
}

func (h CLIHandler) List(ctx context.Context, deck, status string, excludeGreen bool) ([]dto.CardOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Deck: deck, Filters: dto.FilterInput{Status: status, ExcludeGreen: excludeGreen}})
}

func (h CLIHandler) Summary(ctx context.Context, deck string) (dto.DeckSummaryOutput, error) {
	return h.usecase.Summary(ctx, deck)
}

func (h CLIHandler) Draw(ctx context.Context, deck, status string, excludeGreen bool, weights dto.WeightsInput) (dto.CardOutput, error) {
	return h.usecase.Draw(ctx, dto.DrawInput{
		Deck:    deck,
		Filters: dto.FilterInput{Status: status, ExcludeGreen: excludeGreen},
		Weights: weights,
	})
}
