package in

import (
	"context"

	"prepdeck/internal/modules/practice/dto"
	practicein "prepdeck/internal/modules/practice/port/in"
)

type CLIHandler struct {
	usecase practicein.Usecase
}

func NewCLIHandler(usecase practicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, deck string) (dto.StateOutput, error) {
	return h.usecase.Show(ctx, deck)
}

func (h CLIHandler) SetWeight(ctx context.Context, deck, status string, value float64) (dto.StateOutput, error) {
	return h.usecase.SetWeight(ctx, dto.SetWeightInput{Deck: deck, Status: status, Value: value})
}

func (h CLIHandler) Filter(ctx context.Context, deck, status string) (dto.StateOutput, error) {
	return h.usecase.SetStatusFilter(ctx, dto.SetFilterInput{Deck: deck, Status: status})
}

func (h CLIHandler) ExcludeGreen(ctx context.Context, deck string) (dto.StateOutput, error) {
	return h.usecase.ToggleExcludeGreen(ctx, deck)
}

func (h CLIHandler) Next(ctx context.Context, deck string) (dto.CurrentOutput, error) {
	return h.usecase.Next(ctx, deck)
}

func (h CLIHandler) Reveal(ctx context.Context, deck string) (dto.CurrentOutput, error) {
	return h.usecase.Reveal(ctx, deck)
}

func (h CLIHandler) Current(ctx context.Context, deck string) (dto.CurrentOutput, error) {
	return h.usecase.Current(ctx, deck)
}
