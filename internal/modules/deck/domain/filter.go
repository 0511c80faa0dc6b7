package domain

import (
	"fmt"
	"strings"

	apperrors "prepdeck/internal/platform/errors"
)

// StatusFilter is "all" or one Status.
type StatusFilter string

const StatusFilterAll StatusFilter = "all"

// StatusFilters lists every filter value in display order.
var StatusFilters = []StatusFilter{StatusFilterAll, StatusFilter(StatusRed), StatusFilter(StatusYellow), StatusFilter(StatusGreen)}

func ParseStatusFilter(raw string) (StatusFilter, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return StatusFilterAll, nil
	}
	for _, f := range StatusFilters {
		if string(f) == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: status filter %q", apperrors.ErrInvalidInput, raw)
}

type Filters struct {
	Status       StatusFilter `json:"status" yaml:"status"`
	ExcludeGreen bool         `json:"exclude_green" yaml:"exclude_green"`
}

// FilterCards drops green cards when ExcludeGreen is set, then keeps only the
// cards matching Status. The input is left untouched.
func FilterCards(cards []Card, f Filters) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if f.ExcludeGreen && c.Status == StatusGreen {
			continue
		}
		out = append(out, c)
	}
	if f.Status == "" || f.Status == StatusFilterAll {
		return out
	}
	kept := out[:0]
	for _, c := range out {
		if StatusFilter(c.Status) == f.Status {
			kept = append(kept, c)
		}
	}
	return kept
}
