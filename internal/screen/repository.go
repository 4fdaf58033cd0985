package screen

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// Repository runs the screen's read queries. The whole screen is one
// indexed join so the database does the filtering and ranking; rows never
// stream through Go before the limit is applied.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new screen repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ScreenDay evaluates the conjunctive criteria against the inner join of
// quotes, fundamentals and money-flow for the trading date. Results are
// ordered by net money-flow amount descending with ts_code as the
// deterministic tie-breaker, and the limit is applied after ordering.
// Optional bounds arrive as NULL and disable their predicate.
func (r *Repository) ScreenDay(ctx context.Context, date time.Time, c market.FilterCriteria) ([]market.InstrumentSnapshot, error) {
	query := `
		SELECT q.ts_code, COALESCE(st.symbol, ''), COALESCE(st.name, ''), q.trade_date,
		       COALESCE(q.close, 0), COALESCE(q.pct_chg, 0), COALESCE(q.amount, 0),
		       COALESCE(b.turnover_rate, 0), COALESCE(b.volume_ratio, 0),
		       COALESCE(b.pe, 0), COALESCE(b.pb, 0),
		       COALESCE(b.total_mv, 0), COALESCE(b.circ_mv, 0),
		       COALESCE(m.net_mf_vol, 0), COALESCE(m.net_mf_amount, 0)
		FROM daily_hq q
		JOIN daily_basic b ON b.ts_code = q.ts_code AND b.trade_date = q.trade_date
		JOIN moneyflow m ON m.ts_code = q.ts_code AND m.trade_date = q.trade_date
		LEFT JOIN stocks st ON st.ts_code = q.ts_code
		WHERE q.trade_date = $1
		  AND q.pct_chg >= $2 AND q.pct_chg <= $3
		  AND b.circ_mv >= $4
		  AND ($5::numeric IS NULL OR b.circ_mv <= $5)
		  AND b.pe >= $6 AND b.pe <= $7
		  AND b.turnover_rate >= $8
		  AND ($9::numeric IS NULL OR b.turnover_rate <= $9)
		  AND ($10::numeric IS NULL OR m.net_mf_amount >= $10)
		ORDER BY m.net_mf_amount DESC, q.ts_code ASC
		LIMIT $11
	`

	rows, err := r.pool.Query(ctx, query,
		date,
		c.MinPct, c.MaxPct,
		c.MinCircMv, c.MaxCircMv,
		c.MinPe, c.MaxPe,
		c.MinTurnoverRate, c.MaxTurnoverRate,
		c.MinNetMfAmount,
		c.TopN,
	)
	if err != nil {
		return nil, fmt.Errorf("screen query for %s: %w", market.FormatTradeDate(date), err)
	}
	defer rows.Close()

	results := make([]market.InstrumentSnapshot, 0, c.TopN)
	for rows.Next() {
		var snap market.InstrumentSnapshot
		if err := rows.Scan(
			&snap.TsCode, &snap.Symbol, &snap.Name, &snap.TradeDate,
			&snap.Close, &snap.PctChg, &snap.Amount,
			&snap.TurnoverRate, &snap.VolumeRatio,
			&snap.Pe, &snap.Pb,
			&snap.TotalMv, &snap.CircMv,
			&snap.NetMfVol, &snap.NetMfAmount,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		results = append(results, snap)
	}
	return results, rows.Err()
}
