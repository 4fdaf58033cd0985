package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// replaceFundamentals replaces the daily_basic snapshot for a trading date
// in a single transaction.
func (s *Store) replaceFundamentals(ctx context.Context, date time.Time, fundamentals []market.DailyFundamental) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin fundamentals transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM daily_basic WHERE trade_date = $1`, date); err != nil {
		return 0, fmt.Errorf("delete fundamentals for %s: %w", market.FormatTradeDate(date), err)
	}

	query := `
		INSERT INTO daily_basic (
			ts_code, trade_date, close, turnover_rate, volume_ratio,
			pe, pb, total_mv, circ_mv
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			close = EXCLUDED.close,
			turnover_rate = EXCLUDED.turnover_rate,
			volume_ratio = EXCLUDED.volume_ratio,
			pe = EXCLUDED.pe,
			pb = EXCLUDED.pb,
			total_mv = EXCLUDED.total_mv,
			circ_mv = EXCLUDED.circ_mv
	`

	batch := &pgx.Batch{}
	for _, f := range fundamentals {
		batch.Queue(query,
			f.TsCode, date, f.Close, f.TurnoverRate, f.VolumeRatio,
			f.Pe, f.Pb, f.TotalMv, f.CircMv,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range fundamentals {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("insert fundamental row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close fundamentals batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit fundamentals for %s: %w", market.FormatTradeDate(date), err)
	}

	return len(fundamentals), nil
}
