package domain

import "prepdeck/internal/platform/random"

// Weights are relative draw weights per status. Negative values count as zero.
type Weights struct {
	Red    float64 `json:"red" yaml:"red"`
	Yellow float64 `json:"yellow" yaml:"yellow"`
	Green  float64 `json:"green" yaml:"green"`
}

func (w Weights) For(s Status) float64 {
	var v float64
	switch s {
	case StatusRed:
		v = w.Red
	case StatusYellow:
		v = w.Yellow
	case StatusGreen:
		v = w.Green
	}
	if v < 0 {
		return 0
	}
	return v
}

// Pick draws a status bucket proportionally to its weight among the buckets
// that hold at least one card, then a card uniformly inside that bucket. When
// no present bucket carries weight it draws uniformly over all cards. It
// reports false only for an empty input.
func Pick(cards []Card, w Weights, rnd random.Source) (Card, bool) {
	if len(cards) == 0 {
		return Card{}, false
	}

	buckets := make(map[Status][]Card, len(Statuses))
	for _, c := range cards {
		buckets[c.Status] = append(buckets[c.Status], c)
	}

	var sum float64
	for _, s := range Statuses {
		if len(buckets[s]) > 0 {
			sum += w.For(s)
		}
	}
	if sum <= 0 {
		return cards[rnd.IntN(len(cards))], true
	}

	selected := StatusGreen
	u, threshold := rnd.Float64(), 0.0
	for _, s := range Statuses[:len(Statuses)-1] {
		if len(buckets[s]) == 0 {
			continue
		}
		threshold += w.For(s) / sum
		if u < threshold {
			selected = s
			break
		}
	}

	pool := buckets[selected]
	if len(pool) == 0 {
		return cards[rnd.IntN(len(cards))], true
	}
	return pool[rnd.IntN(len(pool))], true
}
