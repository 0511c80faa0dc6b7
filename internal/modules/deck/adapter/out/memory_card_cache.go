package out

import (
	"context"
	"maps"
	"slices"
	"sync"

	"prepdeck/internal/modules/deck/domain"
	deckout "prepdeck/internal/modules/deck/port/out"
)

// MemoryCardCache lives as long as the process.
type MemoryCardCache struct {
	mu      sync.RWMutex
	entries map[string][]domain.Card
}

func NewMemoryCardCache() deckout.CardCache {
	return &MemoryCardCache{entries: map[string][]domain.Card{}}
}

func (c *MemoryCardCache) Get(_ context.Context, key string) ([]domain.Card, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cards, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return cloneCards(cards), true, nil
}

func (c *MemoryCardCache) Set(_ context.Context, key string, cards []domain.Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cloneCards(cards)
	return nil
}

func (c *MemoryCardCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// cloneCards copies cards together with their meta maps and note sections so
// neither side of the cache can see the other's edits.
func cloneCards(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		c.Meta = maps.Clone(c.Meta)
		c.Notes.Sections = slices.Clone(c.Notes.Sections)
		out[i] = c
	}
	return out
}
