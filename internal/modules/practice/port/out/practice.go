package out

import (
	"context"

	"prepdeck/internal/modules/practice/domain"
)

// StateStore persists practice state. Load on a store that was never saved
// returns an empty State.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}
