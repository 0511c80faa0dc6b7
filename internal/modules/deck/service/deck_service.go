package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prepdeck/internal/modules/deck/domain"
	deckout "prepdeck/internal/modules/deck/port/out"
	"prepdeck/internal/platform/csvtable"
	apperrors "prepdeck/internal/platform/errors"
	"prepdeck/internal/platform/random"
)

// Origin tells where a Load found its cards.
type Origin string

const (
	OriginMemory  Origin = "memory"
	OriginCache   Origin = "cache"
	OriginNetwork Origin = "network"
)

// Sources names the CSV URL per deck and the cache key prefix.
type Sources struct {
	URLs        map[domain.DeckName]string
	CachePrefix string
}

type LoadResult struct {
	Cards       []domain.Card
	Origin      Origin
	ParseErrors []string
}

type DeckService struct {
	logger     *slog.Logger
	sources    Sources
	fetcher    deckout.TextFetcher
	memory     deckout.CardCache
	persistent deckout.CardCache
	sheets     deckout.SheetReader
	rnd        random.Source
}

// NewDeckService wires the loader. persistent and sheets may be nil.
func NewDeckService(logger *slog.Logger, sources Sources, fetcher deckout.TextFetcher, memory, persistent deckout.CardCache, sheets deckout.SheetReader, rnd random.Source) *DeckService {
	if sources.CachePrefix == "" {
		sources.CachePrefix = "deck-cache:v2"
	}
	return &DeckService{
		logger:     logger,
		sources:    sources,
		fetcher:    fetcher,
		memory:     memory,
		persistent: persistent,
		sheets:     sheets,
		rnd:        rnd,
	}
}

func (s *DeckService) cacheKey(deck domain.DeckName) string {
	return s.sources.CachePrefix + ":" + string(deck)
}

// Load returns the cards of deck, preferring the memory tier, then the
// persistent tier, then the network. refresh skips both cache reads.
func (s *DeckService) Load(ctx context.Context, deck domain.DeckName, refresh bool) (LoadResult, error) {
	mapper, err := domain.MapperFor(deck)
	if err != nil {
		return LoadResult{}, err
	}
	key := s.cacheKey(deck)

	if !refresh {
		if cards, ok := s.readCache(ctx, s.memory, key); ok {
			return LoadResult{Cards: cards, Origin: OriginMemory}, nil
		}
		if cards, ok := s.readCache(ctx, s.persistent, key); ok {
			s.writeCache(ctx, s.memory, key, cards)
			return LoadResult{Cards: cards, Origin: OriginCache}, nil
		}
	}

	url := strings.TrimSpace(s.sources.URLs[deck])
	if url == "" {
		return LoadResult{}, fmt.Errorf("%w: %s", apperrors.ErrMissingSourceURL, deck)
	}
	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load deck %s: %w", deck, err)
	}

	parsed := csvtable.Parse(text)
	for _, msg := range parsed.Errors {
		s.logger.Warn("csv parse error", "deck", deck, "error", msg)
	}
	cards := mapper(parsed.Rows)
	s.logger.Info("deck fetched", "deck", deck, "rows", len(parsed.Rows), "cards", len(cards))

	s.writeCache(ctx, s.memory, key, cards)
	s.writeCache(ctx, s.persistent, key, cards)
	return LoadResult{Cards: cards, Origin: OriginNetwork, ParseErrors: parsed.Errors}, nil
}

// Import replaces the cached cards of deck with the contents of a local
// export. The first parse error aborts the import.
func (s *DeckService) Import(ctx context.Context, deck domain.DeckName, path string) ([]domain.Card, error) {
	mapper, err := domain.MapperFor(deck)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: import path is required", apperrors.ErrInvalidInput)
	}
	if s.sheets == nil {
		return nil, fmt.Errorf("sheet reader is not configured")
	}
	parsed, err := s.sheets.ReadSheet(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%w: parse csv: %s", apperrors.ErrInvalidInput, parsed.Errors[0])
	}
	cards := mapper(parsed.Rows)

	key := s.cacheKey(deck)
	if s.memory != nil {
		if err := s.memory.Set(ctx, key, cards); err != nil {
			return nil, err
		}
	}
	if s.persistent != nil {
		if err := s.persistent.Set(ctx, key, cards); err != nil {
			return nil, err
		}
	}
	s.logger.Info("deck imported", "deck", deck, "path", path, "cards", len(cards))
	return cards, nil
}

// Invalidate drops deck from both cache tiers.
func (s *DeckService) Invalidate(ctx context.Context, deck domain.DeckName) error {
	if _, err := domain.MapperFor(deck); err != nil {
		return err
	}
	key := s.cacheKey(deck)
	for _, c := range []deckout.CardCache{s.memory, s.persistent} {
		if c == nil {
			continue
		}
		if err := c.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *DeckService) List(ctx context.Context, deck domain.DeckName, filters domain.Filters) ([]domain.Card, error) {
	res, err := s.Load(ctx, deck, false)
	if err != nil {
		return nil, err
	}
	return domain.FilterCards(res.Cards, filters), nil
}

// Draw picks one card among those passing filters.
func (s *DeckService) Draw(ctx context.Context, deck domain.DeckName, filters domain.Filters, weights domain.Weights) (domain.Card, error) {
	cards, err := s.List(ctx, deck, filters)
	if err != nil {
		return domain.Card{}, err
	}
	card, ok := domain.Pick(cards, weights, s.rnd)
	if !ok {
		return domain.Card{}, apperrors.ErrNoCards
	}
	return card, nil
}

func (s *DeckService) GetCard(ctx context.Context, deck domain.DeckName, id string) (domain.Card, error) {
	cards, err := s.List(ctx, deck, domain.Filters{Status: domain.StatusFilterAll})
	if err != nil {
		return domain.Card{}, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Card{}, fmt.Errorf("%w: card %q in %s", apperrors.ErrNotFound, id, deck)
}

func (s *DeckService) readCache(ctx context.Context, cache deckout.CardCache, key string) ([]domain.Card, bool) {
	if cache == nil {
		return nil, false
	}
	cards, ok, err := cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("card cache read failed", "key", key, "error", err)
		return nil, false
	}
	return cards, ok
}

func (s *DeckService) writeCache(ctx context.Context, cache deckout.CardCache, key string, cards []domain.Card) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, key, cards); err != nil {
		s.logger.Warn("card cache write failed", "key", key, "error", err)
	}
}
