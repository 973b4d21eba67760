package storage

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"priceshield/internal/compare/model"
	"priceshield/internal/compare/service"
)

// Store is the durable listing catalog. Real-time search results are
// saved here so repeated queries can be answered without scraping, and
// price changes accumulate into a history.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	brand       TEXT NOT NULL DEFAULT '',
	store       TEXT NOT NULL,
	price       REAL NOT NULL,
	price_raw   TEXT NOT NULL,
	url         TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	query       TEXT NOT NULL DEFAULT '',
	scraped_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_name  ON listings(name);
CREATE INDEX IF NOT EXISTS idx_listings_store ON listings(store);

CREATE TABLE IF NOT EXISTS price_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	listing_id  TEXT NOT NULL,
	price       REAL NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_listing ON price_history(listing_id);

CREATE TABLE IF NOT EXISTS search_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	query       TEXT NOT NULL,
	results     INTEGER NOT NULL,
	searched_at TIMESTAMP NOT NULL
);
`

func Open(path string, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// ListingID is the stable identifier for a (store, name) pair,
// independent of scrape timing.
func ListingID(store, name string) string {
	key := strings.ToLower(strings.TrimSpace(store)) + "|" +
		strings.Join(strings.Fields(strings.ToLower(name)), " ")
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// SaveBatch upserts a scraped batch. Listings without a name or with an
// unparseable price are skipped, matching the scraper's accept rule. A
// price change on an existing listing appends to its history.
func (s *Store) SaveBatch(ctx context.Context, listings []model.Listing, query string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	saved := 0
	for _, l := range listings {
		name := strings.TrimSpace(l.Name)
		price, ok := service.ParsePrice(l.Price)
		if name == "" || !ok || price <= 0 {
			continue
		}
		id := ListingID(l.Store, name)

		var prev float64
		err := tx.QueryRowContext(ctx, `SELECT price FROM listings WHERE id = ?`, id).Scan(&prev)
		switch {
		case err == sql.ErrNoRows:
			image := ""
			if len(l.Images) > 0 {
				image = l.Images[0]
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO listings (id, name, brand, store, price, price_raw, url, image, query, scraped_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, name, "", l.Store, price, l.Price, l.URL, image, query, now); err != nil {
				return 0, err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO price_history (listing_id, price, recorded_at) VALUES (?, ?, ?)`,
				id, price, now); err != nil {
				return 0, err
			}
		case err != nil:
			return 0, err
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE listings SET price = ?, price_raw = ?, url = ?, scraped_at = ? WHERE id = ?`,
				price, l.Price, l.URL, now, id); err != nil {
				return 0, err
			}
			if prev != price {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO price_history (listing_id, price, recorded_at) VALUES (?, ?, ?)`,
					id, price, now); err != nil {
					return 0, err
				}
			}
		}
		saved++
	}

	if query != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO search_history (query, results, searched_at) VALUES (?, ?, ?)`,
			strings.ToLower(strings.TrimSpace(query)), saved, now); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return saved, nil
}

// SearchSaved finds saved listings by name substring, then drops false
// positives with the relevance guard (searching "papaya" must not
// return "papa"). sortBy: price | price_desc | name | scraped_at.
func (s *Store) SearchSaved(ctx context.Context, query, store string, limit int, sortBy string) ([]model.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.Listing{}, nil
	}

	order := "price ASC"
	switch sortBy {
	case "price_desc":
		order = "price DESC"
	case "name":
		order = "name ASC"
	case "scraped_at":
		order = "scraped_at DESC"
	}

	sqlq := `SELECT id, name, store, price_raw, url, image FROM listings WHERE lower(name) LIKE ?`
	args := []any{"%" + q + "%"}
	if store != "" {
		sqlq += ` AND store = ?`
		args = append(args, store)
	}
	sqlq += ` ORDER BY ` + order + ` LIMIT ?`
	args = append(args, limit*2) // headroom for the relevance filter

	rows, err := s.db.QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Listing, 0, limit)
	for rows.Next() {
		var id, name, st, priceRaw, url, image string
		if err := rows.Scan(&id, &name, &st, &priceRaw, &url, &image); err != nil {
			return nil, err
		}
		if !RelevantMatch(q, name) {
			continue
		}
		l := model.Listing{
			Name:         name,
			Price:        priceRaw,
			Store:        st,
			URL:          url,
			PersistentID: id,
			Source:       model.SourceSaved,
		}
		if image != "" {
			l.Images = []string{image}
		}
		out = append(out, l)
		if len(out) >= limit {
			break
		}
	}
	return out, rows.Err()
}

// PricePoint is one historical price observation.
type PricePoint struct {
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s *Store) PriceHistory(ctx context.Context, listingID string, daysBack int) ([]PricePoint, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -daysBack)
	rows, err := s.db.QueryContext(ctx, `
		SELECT price, recorded_at FROM price_history
		WHERE listing_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC`, listingID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Price, &p.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SearchCount is a query with its usage count.
type SearchCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

func (s *Store) PopularSearches(ctx context.Context, limit int) ([]SearchCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, COUNT(*) AS n FROM search_history
		GROUP BY query ORDER BY n DESC, query ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SearchCount, 0, limit)
	for rows.Next() {
		var sc SearchCount
		if err := rows.Scan(&sc.Query, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// CleanOld removes listings not re-scraped within the given number of
// days, with their history.
func (s *Store) CleanOld(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM price_history WHERE listing_id IN
		(SELECT id FROM listings WHERE scraped_at < ?)`, cutoff); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE scraped_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
