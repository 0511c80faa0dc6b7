package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"prepdeck/internal/modules/deck/domain"
	deckout "prepdeck/internal/modules/deck/port/out"
	"prepdeck/internal/platform/clock"

	_ "modernc.org/sqlite"
)

// SQLiteCardCache persists card arrays as JSON next to the time they were
// stored. Expired or undecodable entries are removed on read.
type SQLiteCardCache struct {
	db    *sql.DB
	clock clock.Clock
	ttl   time.Duration
}

func NewSQLiteCardCache(dbPath string, clk clock.Clock, ttl time.Duration) (*SQLiteCardCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	cache := &SQLiteCardCache{db: db, clock: clk, ttl: ttl}
	if err := cache.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

var _ deckout.CardCache = (*SQLiteCardCache)(nil)

func (c *SQLiteCardCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS card_cache (
  key TEXT PRIMARY KEY,
  cards TEXT NOT NULL,
  stored_at TEXT NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create card_cache table: %w", err)
	}
	return nil
}

func (c *SQLiteCardCache) Get(ctx context.Context, key string) ([]domain.Card, bool, error) {
	var payload, storedRaw string
	err := c.db.QueryRowContext(ctx, `SELECT cards, stored_at FROM card_cache WHERE key = ?`, key).Scan(&payload, &storedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read card cache: %w", err)
	}

	storedAt, err := time.Parse(time.RFC3339Nano, storedRaw)
	if err != nil || clock.Expired(c.clock.Now(), storedAt, c.ttl) {
		return nil, false, c.Delete(ctx, key)
	}
	cards := []domain.Card{}
	if err := json.Unmarshal([]byte(payload), &cards); err != nil {
		return nil, false, c.Delete(ctx, key)
	}
	return cards, true, nil
}

func (c *SQLiteCardCache) Set(ctx context.Context, key string, cards []domain.Card) error {
	if cards == nil {
		cards = []domain.Card{}
	}
	payload, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	const stmt = `
INSERT INTO card_cache (key, cards, stored_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  cards=excluded.cards,
  stored_at=excluded.stored_at;
`
	if _, err := c.db.ExecContext(ctx, stmt, key, string(payload), c.clock.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("write card cache: %w", err)
	}
	return nil
}

func (c *SQLiteCardCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM card_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete card cache: %w", err)
	}
	return nil
}

func (c *SQLiteCardCache) Close() error {
	return c.db.Close()
}
