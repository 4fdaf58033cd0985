// Package screen evaluates multi-table filter criteria against materialized
// daily data: validate the request, verify every required dataset kind is
// present, then run one ranked, limited join.
package screen

import (
	"context"
	"time"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// DataStore is the subset of the dataset store the engine reads.
type DataStore interface {
	Exists(ctx context.Context, kind market.DatasetKind, date time.Time) (bool, error)
	QuotesByDate(ctx context.Context, date time.Time, minPct, maxPct float64) ([]market.QuoteRow, error)
}

// ScreenRepository runs the joined screen query.
type ScreenRepository interface {
	ScreenDay(ctx context.Context, date time.Time, c market.FilterCriteria) ([]market.InstrumentSnapshot, error)
}

// Engine is the multi-table filter engine. It is read-only; callers are
// responsible for materializing the trading date first.
type Engine struct {
	store  DataStore
	repo   ScreenRepository
	logger *logger.Logger
}

// NewEngine creates a new filter engine.
func NewEngine(store DataStore, repo ScreenRepository, log *logger.Logger) *Engine {
	return &Engine{
		store:  store,
		repo:   repo,
		logger: log.WithField("module", "screen"),
	}
}

// Result is one evaluated screen: the ranked, truncated snapshot list.
// An empty Records with Count 0 is a successful outcome, not an error.
type Result struct {
	TradeDate string                      `json:"trade_date"`
	Count     int                         `json:"count"`
	Records   []market.InstrumentSnapshot `json:"records"`
}

// PctResult is one evaluated legacy percent-change filter.
type PctResult struct {
	TradeDate string           `json:"trade_date"`
	Count     int              `json:"count"`
	Records   []market.QuoteRow `json:"records"`
}

// Evaluate runs the money-flow screen. Validation happens before any I/O;
// a missing dataset kind for the date fails with NotMaterializedError
// rather than letting the inner join masquerade as "no matches".
func (e *Engine) Evaluate(ctx context.Context, criteria market.FilterCriteria) (*Result, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	date, err := criteria.Date()
	if err != nil {
		return nil, err
	}

	// The default criteria touch all three tables, so the screen always
	// requires the full set.
	for _, kind := range market.AllKinds() {
		present, err := e.store.Exists(ctx, kind, date)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, &NotMaterializedError{Kind: kind, Date: date}
		}
	}

	records, err := e.repo.ScreenDay(ctx, date, criteria)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"trade_date": criteria.TradeDate,
		"matched":    len(records),
		"top_n":      criteria.TopN,
	}).Info("Screen evaluated")

	return &Result{
		TradeDate: criteria.TradeDate,
		Count:     len(records),
		Records:   records,
	}, nil
}

// PctFilter runs the legacy percent-change filter over quotes only. The
// result is ordered by percent change descending and is never truncated;
// only the money-flow screen has a top-N limit.
func (e *Engine) PctFilter(ctx context.Context, criteria market.PctCriteria) (*PctResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	date, err := criteria.Date()
	if err != nil {
		return nil, err
	}

	present, err := e.store.Exists(ctx, market.KindQuotes, date)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, &NotMaterializedError{Kind: market.KindQuotes, Date: date}
	}

	records, err := e.store.QuotesByDate(ctx, date, criteria.MinPct, criteria.MaxPct)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"trade_date": criteria.TradeDate,
		"matched":    len(records),
	}).Info("Pct filter evaluated")

	return &PctResult{
		TradeDate: criteria.TradeDate,
		Count:     len(records),
		Records:   records,
	}, nil
}
