// Package materialize decides whether requested market data already exists
// locally and fills the gap from the upstream provider when it does not.
package materialize

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// Gateway is the upstream fetch the coordinator depends on.
type Gateway interface {
	FetchDay(ctx context.Context, kind market.DatasetKind, date time.Time) (*market.Batch, error)
}

// DayStore is the persistence surface the coordinator depends on.
type DayStore interface {
	Exists(ctx context.Context, kind market.DatasetKind, date time.Time) (bool, error)
	ReplaceDay(ctx context.Context, batch *market.Batch) (int, error)
}

// Coordinator materializes dataset kinds for a trading date: kinds already
// present are skipped, missing ones are fetched and persisted in one
// transaction per kind. Concurrent callers asking for the same (kind, date)
// share a single in-flight fetch; if the dedup window is missed the
// idempotent day-replacing insert is still the correctness boundary, so a
// duplicate fetch only costs upstream I/O.
type Coordinator struct {
	gateway Gateway
	store   DayStore
	group   singleflight.Group
	logger  *logger.Logger
}

// NewCoordinator creates a new materialization coordinator.
func NewCoordinator(gateway Gateway, store DayStore, log *logger.Logger) *Coordinator {
	return &Coordinator{
		gateway: gateway,
		store:   store,
		logger:  log.WithField("module", "materialize"),
	}
}

// Ensure makes every requested kind present for the trading date. Each kind
// commits independently; when a later kind fails, earlier kinds stay
// materialized and the call reports the failing kind through a typed error.
func (c *Coordinator) Ensure(ctx context.Context, date time.Time, kinds []market.DatasetKind) error {
	for _, kind := range kinds {
		present, err := c.store.Exists(ctx, kind, date)
		if err != nil {
			return err
		}
		if present {
			continue
		}

		if err := c.materialize(ctx, kind, date); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAll materializes all dataset kinds for the trading date.
func (c *Coordinator) EnsureAll(ctx context.Context, date time.Time) error {
	return c.Ensure(ctx, date, market.AllKinds())
}

// Refresh re-materializes one kind unconditionally, replacing the stored
// day. Returns the row count written.
func (c *Coordinator) Refresh(ctx context.Context, kind market.DatasetKind, date time.Time) (int, error) {
	count, err := c.fetchAndPersist(ctx, kind, date)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// materialize runs fetch-and-persist for one (kind, date), deduplicating
// concurrent requests for the same pair.
func (c *Coordinator) materialize(ctx context.Context, kind market.DatasetKind, date time.Time) error {
	key := kind.String() + ":" + market.FormatTradeDate(date)

	// Independent callers share the flight but not a cancellation scope:
	// one caller aborting must not fail the materialization other callers
	// are waiting on, so the work runs detached from this request's ctx.
	_, err, shared := c.group.Do(key, func() (interface{}, error) {
		count, err := c.fetchAndPersist(context.WithoutCancel(ctx), kind, date)
		return count, err
	})
	if shared {
		c.logger.WithFields(map[string]interface{}{
			"kind":       kind.String(),
			"trade_date": market.FormatTradeDate(date),
		}).Debug("Joined in-flight materialization")
	}
	return err
}

func (c *Coordinator) fetchAndPersist(ctx context.Context, kind market.DatasetKind, date time.Time) (int, error) {
	start := time.Now()

	batch, err := c.gateway.FetchDay(ctx, kind, date)
	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"kind":       kind.String(),
			"trade_date": market.FormatTradeDate(date),
		}).Error("Upstream fetch failed")
		return 0, &FetchError{Kind: kind, Date: date, Err: err}
	}

	count, err := c.store.ReplaceDay(ctx, batch)
	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"kind":       kind.String(),
			"trade_date": market.FormatTradeDate(date),
		}).Error("Persist failed")
		return 0, &PersistError{Kind: kind, Date: date, Err: err}
	}

	c.logger.WithFields(map[string]interface{}{
		"kind":       kind.String(),
		"trade_date": market.FormatTradeDate(date),
		"rows":       count,
		"duration":   time.Since(start),
	}).Info("Materialized day snapshot")

	return count, nil
}
