package materialize

import (
	"fmt"
	"time"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// FetchError reports an upstream fetch failure for one (kind, date). It is
// retryable from the caller's point of view; the coordinator does not retry
// internally.
type FetchError struct {
	Kind market.DatasetKind
	Date time.Time
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v",
		e.Kind, market.FormatTradeDate(e.Date), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError reports a storage failure for one (kind, date). The day's
// transaction rolled back; nothing was partially committed for the kind.
type PersistError struct {
	Kind market.DatasetKind
	Date time.Time
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s for %s: %v",
		e.Kind, market.FormatTradeDate(e.Date), e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
