// Package store is the persistence layer for the daily market datasets.
// PostgreSQL is the source of truth; every table is partitioned by trading
// date and keyed by (ts_code, trade_date) with a unique index, so day
// replacement is idempotent by construction.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// Store provides transactional persistence for the three daily dataset
// kinds plus the instrument master table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store over a pgx connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// tableFor maps a dataset kind to its table.
func tableFor(kind market.DatasetKind) (string, error) {
	switch kind {
	case market.KindQuotes:
		return "daily_hq", nil
	case market.KindFundamentals:
		return "daily_basic", nil
	case market.KindMoneyFlow:
		return "moneyflow", nil
	default:
		return "", fmt.Errorf("unknown dataset kind %d", int(kind))
	}
}

// Exists reports whether any rows of the given kind are present for the
// trading date. Visibility is transactional: a day is present only after
// its ReplaceDay transaction has committed.
func (s *Store) Exists(ctx context.Context, kind market.DatasetKind, date time.Time) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE trade_date = $1)`, table)

	var exists bool
	if err := s.pool.QueryRow(ctx, query, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s presence for %s: %w",
			kind, market.FormatTradeDate(date), err)
	}
	return exists, nil
}

// ReplaceDay atomically replaces the full-day snapshot of the batch's kind:
// existing rows for the date are deleted and the batch inserted in one
// transaction, so concurrent duplicate materialization attempts degrade to
// last-writer-wins instead of corrupting the day. Returns the row count
// written.
func (s *Store) ReplaceDay(ctx context.Context, batch *market.Batch) (int, error) {
	switch batch.Kind {
	case market.KindQuotes:
		return s.replaceQuotes(ctx, batch.TradeDate, batch.Quotes)
	case market.KindFundamentals:
		return s.replaceFundamentals(ctx, batch.TradeDate, batch.Fundamentals)
	case market.KindMoneyFlow:
		return s.replaceMoneyFlows(ctx, batch.TradeDate, batch.MoneyFlows)
	default:
		return 0, fmt.Errorf("unknown dataset kind %d", int(batch.Kind))
	}
}

// CountByDate returns the row count of the given kind for a trading date.
func (s *Store) CountByDate(ctx context.Context, kind market.DatasetKind, date time.Time) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE trade_date = $1`, table)

	var count int
	if err := s.pool.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s rows for %s: %w",
			kind, market.FormatTradeDate(date), err)
	}
	return count, nil
}
