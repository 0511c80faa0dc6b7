package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	deckout "prepdeck/internal/modules/deck/adapter/out"
	"prepdeck/internal/modules/deck/domain"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func sampleCards() []domain.Card {
	return []domain.Card{{
		ID:     "1",
		Deck:   domain.DeckLeetCode,
		Status: domain.StatusRed,
		Title:  "1. Two Sum",
		Link:   "https://leetcode.com/problems/two-sum/",
		Meta:   map[string]string{"Times Submitted": "3"},
		Notes:  domain.Notes{Sections: []domain.NoteSection{{Label: "Takeaway", Value: "hash map"}}},
	}}
}

func TestMemoryCardCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := deckout.NewMemoryCardCache()
	if _, ok, err := cache.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	cards := sampleCards()
	if err := cache.Set(ctx, "k", cards); err != nil {
		t.Fatalf("set: %v", err)
	}
	cards[0].Title = "mutated"
	got, ok, _ := cache.Get(ctx, "k")
	if !ok || got[0].Title != "1. Two Sum" {
		t.Fatalf("cache must hold its own copy, got %+v", got)
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryCardCacheCopiesMetaAndNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := deckout.NewMemoryCardCache()
	cards := sampleCards()
	if err := cache.Set(ctx, "k", cards); err != nil {
		t.Fatalf("set: %v", err)
	}
	cards[0].Meta["Times Submitted"] = "99"
	cards[0].Notes.Sections[0].Value = "mutated"

	got, _, _ := cache.Get(ctx, "k")
	got[0].Meta["Extra"] = "x"
	got[0].Notes.Sections[0].Label = "mutated"

	again, _, _ := cache.Get(ctx, "k")
	c := again[0]
	if c.Meta["Times Submitted"] != "3" || len(c.Meta) != 1 {
		t.Fatalf("meta leaked into the cache: %v", c.Meta)
	}
	if c.Notes.Sections[0] != (domain.NoteSection{Label: "Takeaway", Value: "hash map"}) {
		t.Fatalf("notes leaked into the cache: %+v", c.Notes.Sections)
	}
}

func TestSQLiteCardCacheRoundTripAndTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache, err := deckout.NewSQLiteCardCache(filepath.Join(t.TempDir(), "data", "prepdeck.db"), clk, 6*time.Hour)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	if err := cache.Set(ctx, "deck-cache:v2:leetcode", sampleCards()); err != nil {
		t.Fatalf("set: %v", err)
	}
	clk.now = clk.now.Add(6 * time.Hour)
	got, ok, err := cache.Get(ctx, "deck-cache:v2:leetcode")
	if err != nil || !ok {
		t.Fatalf("expected hit at the ttl boundary, got ok=%v err=%v", ok, err)
	}
	if got[0].Meta["Times Submitted"] != "3" || got[0].Notes.Sections[0].Value != "hash map" {
		t.Fatalf("card did not survive the round trip: %+v", got[0])
	}

	clk.now = clk.now.Add(time.Second)
	if _, ok, err := cache.Get(ctx, "deck-cache:v2:leetcode"); ok || err != nil {
		t.Fatalf("expected expired miss, got ok=%v err=%v", ok, err)
	}
	clk.now = clk.now.Add(-time.Hour)
	if _, ok, _ := cache.Get(ctx, "deck-cache:v2:leetcode"); ok {
		t.Fatalf("expired entry should have been deleted")
	}
}

func TestSQLiteCardCacheReopenAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "prepdeck.db")
	clk := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	first, err := deckout.NewSQLiteCardCache(dbPath, clk, 0)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if err := first.Set(ctx, "k", nil); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	_ = first.Close()

	second, err := deckout.NewSQLiteCardCache(dbPath, clk, 0)
	if err != nil {
		t.Fatalf("reopen cache: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	clk.now = clk.now.Add(1000 * time.Hour)
	got, ok, err := second.Get(ctx, "k")
	if err != nil || !ok || len(got) != 0 {
		t.Fatalf("zero ttl keeps entries forever, got %v ok=%v err=%v", got, ok, err)
	}
	if err := second.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := second.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}
