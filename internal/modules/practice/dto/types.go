package dto

import deckdto "prepdeck/internal/modules/deck/dto"

type WeightsOutput struct {
	Red    float64 `json:"red"`
	Yellow float64 `json:"yellow"`
	Green  float64 `json:"green"`
}

type StateOutput struct {
	Deck          string        `json:"deck"`
	Weights       WeightsOutput `json:"weights"`
	Status        string        `json:"status_filter"`
	ExcludeGreen  bool          `json:"exclude_green"`
	CurrentCardID string        `json:"current_card_id,omitempty"`
	Revealed      bool          `json:"revealed"`
}

// CurrentOutput is the card on screen. Card is nil when nothing is drawn.
type CurrentOutput struct {
	State StateOutput         `json:"state"`
	Card  *deckdto.CardOutput `json:"card,omitempty"`
}

type SetWeightInput struct {
	Deck   string
	Status string
	Value  float64
}

type SetFilterInput struct {
	Deck   string
	Status string
}
