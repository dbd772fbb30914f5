// Package marketdata provides the price history and instrument metadata
// providers consumed by the analytics and back-test services.
package marketdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a symbol has no stored metadata
var ErrNotFound = errors.New("not found")

// HistoryStore provides SQLite-backed access to daily prices and instrument metadata
type HistoryStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryStore creates a new history store accessor
func NewHistoryStore(db *sql.DB, log zerolog.Logger) *HistoryStore {
	return &HistoryStore{
		db:  db,
		log: log.With().Str("component", "history_store").Logger(),
	}
}

// GetPriceHistory returns the stored points for symbol within [start, end], oldest first.
// A zero start or end leaves that side unbounded.
func (h *HistoryStore) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	query := `
		SELECT date, close, adjusted_close
		FROM daily_prices
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	lo := int64(0)
	if !start.IsZero() {
		lo = domain.Day(start).Unix()
	}
	hi := int64(1<<62 - 1)
	if !end.IsZero() {
		hi = domain.Day(end).Unix()
	}

	rows, err := h.db.QueryContext(ctx, query, symbol, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var dateUnix int64
		var adjusted sql.NullFloat64
		p := domain.PricePoint{Symbol: symbol}

		if err := rows.Scan(&dateUnix, &p.Close, &adjusted); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		p.Date = time.Unix(dateUnix, 0).UTC()
		if adjusted.Valid {
			v := adjusted.Float64
			p.AdjustedClose = &v
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return points, nil
}

// SavePrices upserts points in a single transaction. Points are keyed by
// symbol and calendar day; a later save for the same day replaces the earlier one.
func (h *HistoryStore) SavePrices(ctx context.Context, points []domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO daily_prices (symbol, date, close, adjusted_close, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range points {
		var adjusted interface{}
		if p.AdjustedClose != nil {
			adjusted = *p.AdjustedClose
		}

		if _, err := stmt.ExecContext(ctx, p.Symbol, domain.Day(p.Date).Unix(), p.Close, adjusted, now); err != nil {
			return fmt.Errorf("failed to insert price for %s on %s: %w", p.Symbol, domain.FormatDay(p.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	h.log.Info().Int("count", len(points)).Msg("Saved daily prices")
	return nil
}

// DeleteBefore removes all price points older than cutoff and reports how many were removed.
func (h *HistoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := h.db.ExecContext(ctx, "DELETE FROM daily_prices WHERE date < ?", domain.Day(cutoff).Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old prices: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted prices: %w", err)
	}
	return n, nil
}

// Symbols lists every symbol with at least one stored price, sorted
func (h *HistoryStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, "SELECT DISTINCT symbol FROM daily_prices ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Metadata returns the stored metadata for symbol, or ErrNotFound.
func (h *HistoryStore) Metadata(ctx context.Context, symbol string) (*domain.InstrumentMetadata, error) {
	query := `
		SELECT symbol, name, asset_class, sector, country, currency
		FROM instruments
		WHERE symbol = ?
	`

	var md domain.InstrumentMetadata
	var name, sector, country, currency sql.NullString
	err := h.db.QueryRowContext(ctx, query, symbol).Scan(&md.Symbol, &name, &md.AssetClass, &sector, &country, &currency)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("metadata for %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument: %w", err)
	}

	md.Name = name.String
	md.Sector = sector.String
	md.Country = country.String
	md.Currency = currency.String
	return &md, nil
}

// GetMetadata implements domain.MetadataProvider; unknown symbols yield nil.
func (h *HistoryStore) GetMetadata(ctx context.Context, symbol string) (*domain.InstrumentMetadata, error) {
	md, err := h.Metadata(ctx, symbol)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return md, err
}

// SaveMetadata upserts instrument metadata. An empty asset class is stored as Equity.
func (h *HistoryStore) SaveMetadata(ctx context.Context, md domain.InstrumentMetadata) error {
	if md.AssetClass == "" {
		md.AssetClass = string(domain.AssetClassEquity)
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO instruments (symbol, name, asset_class, sector, country, currency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, md.Symbol, nullString(md.Name), md.AssetClass, nullString(md.Sector), nullString(md.Country), nullString(md.Currency), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save metadata for %s: %w", md.Symbol, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
