package out

import (
	"context"

	"prepdeck/internal/modules/deck/domain"
	"prepdeck/internal/platform/csvtable"
)

// TextFetcher downloads a published sheet as CSV text.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// CardCache stores mapped cards under a string key. A miss is reported as
// ok=false with a nil error.
type CardCache interface {
	Get(ctx context.Context, key string) ([]domain.Card, bool, error)
	Set(ctx context.Context, key string, cards []domain.Card) error
	Delete(ctx context.Context, key string) error
}

// SheetReader reads a local CSV or XLSX export into rows.
type SheetReader interface {
	ReadSheet(ctx context.Context, path string) (csvtable.Result, error)
}
