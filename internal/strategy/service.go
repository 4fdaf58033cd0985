// Package strategy is the service surface the API layer calls: it ties the
// materialization coordinator to the filter engine so a single request can
// fill the local cache and evaluate criteria in one step.
package strategy

import (
	"context"
	"time"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/internal/screen"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// Materializer is the coordinator surface the service depends on.
type Materializer interface {
	Ensure(ctx context.Context, date time.Time, kinds []market.DatasetKind) error
	EnsureAll(ctx context.Context, date time.Time) error
	Refresh(ctx context.Context, kind market.DatasetKind, date time.Time) (int, error)
}

// Evaluator is the filter-engine surface the service depends on.
type Evaluator interface {
	Evaluate(ctx context.Context, criteria market.FilterCriteria) (*screen.Result, error)
	PctFilter(ctx context.Context, criteria market.PctCriteria) (*screen.PctResult, error)
}

// InstrumentSource fetches the full instrument roster upstream.
type InstrumentSource interface {
	FetchInstruments(ctx context.Context) ([]market.Instrument, error)
}

// InstrumentStore persists the instrument roster.
type InstrumentStore interface {
	UpsertInstruments(ctx context.Context, instruments []market.Instrument) (int, error)
}

// Service composes materialization and screening.
type Service struct {
	coordinator Materializer
	engine      Evaluator
	source      InstrumentSource
	store       InstrumentStore
	logger      *logger.Logger
}

// NewService creates a new strategy service.
func NewService(
	coordinator Materializer,
	engine Evaluator,
	source InstrumentSource,
	store InstrumentStore,
	log *logger.Logger,
) *Service {
	return &Service{
		coordinator: coordinator,
		engine:      engine,
		source:      source,
		store:       store,
		logger:      log.WithField("module", "strategy"),
	}
}

// EnsureAndScreen materializes every dataset kind for the criteria's
// trading date, then evaluates the money-flow screen. Validation runs
// before any materialization I/O.
func (s *Service) EnsureAndScreen(ctx context.Context, criteria market.FilterCriteria) (*screen.Result, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	date, err := criteria.Date()
	if err != nil {
		return nil, err
	}

	// The screen joins all three kinds regardless of which bounds are set.
	if err := s.coordinator.EnsureAll(ctx, date); err != nil {
		return nil, err
	}

	return s.engine.Evaluate(ctx, criteria)
}

// EnsureAndPctFilter materializes quotes for the criteria's trading date,
// then runs the legacy percent-change filter.
func (s *Service) EnsureAndPctFilter(ctx context.Context, criteria market.PctCriteria) (*screen.PctResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	date, err := criteria.Date()
	if err != nil {
		return nil, err
	}

	if err := s.coordinator.Ensure(ctx, date, []market.DatasetKind{market.KindQuotes}); err != nil {
		return nil, err
	}

	return s.engine.PctFilter(ctx, criteria)
}

// EnsureDay materializes every dataset kind for a trading date, skipping
// kinds that are already stored.
func (s *Service) EnsureDay(ctx context.Context, date time.Time) error {
	return s.coordinator.EnsureAll(ctx, date)
}

// SyncInstruments refreshes the full instrument roster from upstream.
// Returns the number of instruments written.
func (s *Service) SyncInstruments(ctx context.Context) (int, error) {
	instruments, err := s.source.FetchInstruments(ctx)
	if err != nil {
		return 0, err
	}

	count, err := s.store.UpsertInstruments(ctx, instruments)
	if err != nil {
		return 0, err
	}

	s.logger.WithField("count", count).Info("Instrument roster synced")
	return count, nil
}

// SyncDay forces re-materialization of every dataset kind for a trading
// date, replacing whatever is stored. Returns per-kind row counts.
func (s *Service) SyncDay(ctx context.Context, tradeDate string) (map[string]int, error) {
	date, err := market.ParseTradeDate(tradeDate)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(market.AllKinds()))
	for _, kind := range market.AllKinds() {
		count, err := s.coordinator.Refresh(ctx, kind, date)
		if err != nil {
			return nil, err
		}
		counts[kind.String()] = count
	}

	s.logger.WithFields(map[string]interface{}{
		"trade_date": tradeDate,
		"counts":     counts,
	}).Info("Day snapshots re-synced")

	return counts, nil
}
