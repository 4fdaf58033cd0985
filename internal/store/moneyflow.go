package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// replaceMoneyFlows replaces the moneyflow snapshot for a trading date in a
// single transaction.
func (s *Store) replaceMoneyFlows(ctx context.Context, date time.Time, flows []market.MoneyFlow) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin moneyflow transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM moneyflow WHERE trade_date = $1`, date); err != nil {
		return 0, fmt.Errorf("delete moneyflow for %s: %w", market.FormatTradeDate(date), err)
	}

	query := `
		INSERT INTO moneyflow (
			ts_code, trade_date,
			buy_sm_vol, buy_sm_amount, sell_sm_vol, sell_sm_amount,
			buy_md_vol, buy_md_amount, sell_md_vol, sell_md_amount,
			buy_lg_vol, buy_lg_amount, sell_lg_vol, sell_lg_amount,
			buy_elg_vol, buy_elg_amount, sell_elg_vol, sell_elg_amount,
			net_mf_vol, net_mf_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		          $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			buy_sm_vol = EXCLUDED.buy_sm_vol,
			buy_sm_amount = EXCLUDED.buy_sm_amount,
			sell_sm_vol = EXCLUDED.sell_sm_vol,
			sell_sm_amount = EXCLUDED.sell_sm_amount,
			buy_md_vol = EXCLUDED.buy_md_vol,
			buy_md_amount = EXCLUDED.buy_md_amount,
			sell_md_vol = EXCLUDED.sell_md_vol,
			sell_md_amount = EXCLUDED.sell_md_amount,
			buy_lg_vol = EXCLUDED.buy_lg_vol,
			buy_lg_amount = EXCLUDED.buy_lg_amount,
			sell_lg_vol = EXCLUDED.sell_lg_vol,
			sell_lg_amount = EXCLUDED.sell_lg_amount,
			buy_elg_vol = EXCLUDED.buy_elg_vol,
			buy_elg_amount = EXCLUDED.buy_elg_amount,
			sell_elg_vol = EXCLUDED.sell_elg_vol,
			sell_elg_amount = EXCLUDED.sell_elg_amount,
			net_mf_vol = EXCLUDED.net_mf_vol,
			net_mf_amount = EXCLUDED.net_mf_amount
	`

	batch := &pgx.Batch{}
	for _, m := range flows {
		batch.Queue(query,
			m.TsCode, date,
			m.BuySmVol, m.BuySmAmount, m.SellSmVol, m.SellSmAmount,
			m.BuyMdVol, m.BuyMdAmount, m.SellMdVol, m.SellMdAmount,
			m.BuyLgVol, m.BuyLgAmount, m.SellLgVol, m.SellLgAmount,
			m.BuyElgVol, m.BuyElgAmount, m.SellElgVol, m.SellElgAmount,
			m.NetMfVol, m.NetMfAmount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range flows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("insert moneyflow row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close moneyflow batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit moneyflow for %s: %w", market.FormatTradeDate(date), err)
	}

	return len(flows), nil
}
