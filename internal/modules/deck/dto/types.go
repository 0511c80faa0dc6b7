package dto

type NoteOutput struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type CardOutput struct {
	ID          string            `json:"id"`
	Deck        string            `json:"deck"`
	Status      string            `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Link        string            `json:"link,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	Notes       []NoteOutput      `json:"notes"`
}

type LoadInput struct {
	Deck    string
	Refresh bool
}

type LoadOutput struct {
	Deck        string
	Origin      string
	Count       int
	ParseErrors []string
}

type ImportInput struct {
	Deck string
	Path string
}

type ImportOutput struct {
	Deck  string
	Path  string
	Count int
}

type FilterInput struct {
	Status       string
	ExcludeGreen bool
}

type WeightsInput struct {
	Red    float64
	Yellow float64
	Green  float64
}

type ListInput struct {
	Deck    string
	Filters FilterInput
}

type DrawInput struct {
	Deck    string
	Filters FilterInput
	Weights WeightsInput
}

type DeckSummaryOutput struct {
	Deck   string
	Label  string
	Total  int
	Red    int
	Yellow int
	Green  int
}
