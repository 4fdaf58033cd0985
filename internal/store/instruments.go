package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// UpsertInstruments writes the full instrument list, updating display and
// classification fields in place. Instruments are never deleted here; a
// delisted code simply stops appearing in daily datasets.
func (s *Store) UpsertInstruments(ctx context.Context, instruments []market.Instrument) (int, error) {
	if len(instruments) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO stocks (ts_code, symbol, name, area, industry, list_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ts_code) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			area = EXCLUDED.area,
			industry = EXCLUDED.industry,
			list_date = EXCLUDED.list_date
	`

	batch := &pgx.Batch{}
	for _, inst := range instruments {
		batch.Queue(query,
			inst.TsCode, inst.Symbol, inst.Name,
			inst.Area, inst.Industry, inst.ListDate,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	for range instruments {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("upsert instrument: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close instrument batch: %w", err)
	}

	return len(instruments), nil
}

// GetInstrument retrieves a single instrument by its exchange-qualified code.
func (s *Store) GetInstrument(ctx context.Context, tsCode string) (*market.Instrument, error) {
	query := `
		SELECT ts_code, symbol, name,
		       COALESCE(area, ''), COALESCE(industry, ''), COALESCE(list_date, '')
		FROM stocks
		WHERE ts_code = $1
	`

	var inst market.Instrument
	err := s.pool.QueryRow(ctx, query, tsCode).Scan(
		&inst.TsCode, &inst.Symbol, &inst.Name,
		&inst.Area, &inst.Industry, &inst.ListDate,
	)
	if err != nil {
		return nil, fmt.Errorf("get instrument %s: %w", tsCode, err)
	}
	return &inst, nil
}

// CountInstruments returns the size of the instrument master table.
func (s *Store) CountInstruments(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stocks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count instruments: %w", err)
	}
	return count, nil
}
