package in

import (
	"context"

	"prepdeck/internal/modules/deck/dto"
)

type Usecase interface {
	Load(ctx context.Context, input dto.LoadInput) (dto.LoadOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	Invalidate(ctx context.Context, deck string) error
	List(ctx context.Context, input dto.ListInput) ([]dto.CardOutput, error)
	Summary(ctx context.Context, deck string) (dto.DeckSummaryOutput, error)
	Draw(ctx context.Context, input dto.DrawInput) (dto.CardOutput, error)
	GetCard(ctx context.Context, deck, id string) (dto.CardOutput, error)
}
