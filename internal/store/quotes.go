package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// replaceQuotes replaces the daily_hq snapshot for a trading date in a
// single transaction.
func (s *Store) replaceQuotes(ctx context.Context, date time.Time, quotes []market.DailyQuote) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin quotes transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM daily_hq WHERE trade_date = $1`, date); err != nil {
		return 0, fmt.Errorf("delete quotes for %s: %w", market.FormatTradeDate(date), err)
	}

	query := `
		INSERT INTO daily_hq (
			ts_code, trade_date, open, high, low, close,
			pre_close, change, pct_chg, vol, amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			pre_close = EXCLUDED.pre_close,
			change = EXCLUDED.change,
			pct_chg = EXCLUDED.pct_chg,
			vol = EXCLUDED.vol,
			amount = EXCLUDED.amount
	`

	batch := &pgx.Batch{}
	for _, q := range quotes {
		batch.Queue(query,
			q.TsCode, date, q.Open, q.High, q.Low, q.Close,
			q.PreClose, q.Change, q.PctChg, q.Vol, q.Amount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range quotes {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("insert quote row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close quotes batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit quotes for %s: %w", market.FormatTradeDate(date), err)
	}

	return len(quotes), nil
}

// QuotesByDate returns the stored quotes for a trading date, joined to the
// instrument master for display fields. Used by the legacy pct filter.
func (s *Store) QuotesByDate(ctx context.Context, date time.Time, minPct, maxPct float64) ([]market.QuoteRow, error) {
	query := `
		SELECT q.ts_code, COALESCE(st.symbol, ''), COALESCE(st.name, ''), q.trade_date,
		       COALESCE(q.open, 0), COALESCE(q.high, 0), COALESCE(q.low, 0),
		       COALESCE(q.close, 0), COALESCE(q.pre_close, 0), COALESCE(q.change, 0),
		       COALESCE(q.pct_chg, 0), COALESCE(q.vol, 0), COALESCE(q.amount, 0)
		FROM daily_hq q
		LEFT JOIN stocks st ON st.ts_code = q.ts_code
		WHERE q.trade_date = $1
		  AND q.pct_chg >= $2
		  AND q.pct_chg <= $3
		ORDER BY q.pct_chg DESC, q.ts_code ASC
	`

	rows, err := s.pool.Query(ctx, query, date, minPct, maxPct)
	if err != nil {
		return nil, fmt.Errorf("query quotes for %s: %w", market.FormatTradeDate(date), err)
	}
	defer rows.Close()

	results := make([]market.QuoteRow, 0)
	for rows.Next() {
		var r market.QuoteRow
		if err := rows.Scan(
			&r.TsCode, &r.Symbol, &r.Name, &r.TradeDate,
			&r.Open, &r.High, &r.Low,
			&r.Close, &r.PreClose, &r.Change,
			&r.PctChg, &r.Vol, &r.Amount,
		); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
