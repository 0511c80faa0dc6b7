package in

import (
	"context"

	"prepdeck/internal/modules/practice/dto"
)

type Usecase interface {
	Show(ctx context.Context, deck string) (dto.StateOutput, error)
	SetWeight(ctx context.Context, input dto.SetWeightInput) (dto.StateOutput, error)
	SetStatusFilter(ctx context.Context, input dto.SetFilterInput) (dto.StateOutput, error)
	ToggleExcludeGreen(ctx context.Context, deck string) (dto.StateOutput, error)
	Next(ctx context.Context, deck string) (dto.CurrentOutput, error)
	Reveal(ctx context.Context, deck string) (dto.CurrentOutput, error)
	Current(ctx context.Context, deck string) (dto.CurrentOutput, error)
}
