package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrUnknownDeck      = errors.New("unknown deck")
	ErrMissingSourceURL = errors.New("missing csv url for deck")
	ErrURLNotAllowed    = errors.New("url not allowed")
	ErrNoCards          = errors.New("no cards match the current filters")
	ErrNoCurrentCard    = errors.New("no card drawn yet")
)
