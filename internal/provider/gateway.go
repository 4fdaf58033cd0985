// Package provider abstracts the upstream market-data source. The engine
// treats it as one fetch per dataset kind returning a full-day snapshot.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// Gateway is the upstream market-data contract. A fetch returns the
// complete snapshot for the trading date or fails; partial pages never
// reach the caller.
type Gateway interface {
	// FetchDay retrieves the full-day batch of one dataset kind.
	FetchDay(ctx context.Context, kind market.DatasetKind, date time.Time) (*market.Batch, error)

	// FetchInstruments retrieves the full list of listed instruments.
	FetchInstruments(ctx context.Context) ([]market.Instrument, error)
}

// ErrEmptyBatch reports that the upstream returned no rows for a
// well-formed date. Non-trading days and dates outside the feed's range
// are indistinguishable here.
var ErrEmptyBatch = errors.New("upstream returned an empty batch")

// APIError is a non-zero response code from the upstream API. Rate
// limiting surfaces here with the provider's own code and message.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error %d: %s", e.Code, e.Msg)
}
