package screen

import (
	"fmt"
	"time"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// NotMaterializedError reports that a dataset kind required by the screen
// has not been materialized for the trading date. The screen's inner join
// would silently return zero rows in that state, so the precondition is
// checked up front and surfaced as a typed error instead.
type NotMaterializedError struct {
	Kind market.DatasetKind
	Date time.Time
}

func (e *NotMaterializedError) Error() string {
	return fmt.Sprintf("%s data not materialized for %s",
		e.Kind, market.FormatTradeDate(e.Date))
}
