package market

import (
	"time"
)

// TradeDateLayout is the wire format for trading dates (Tushare convention).
const TradeDateLayout = "20060102"

// ParseTradeDate parses a YYYYMMDD trading date.
func ParseTradeDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TradeDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:  "trade_date",
			Reason: "must be a valid date in YYYYMMDD format",
		}
	}
	return t, nil
}

// FormatTradeDate renders a trading date in YYYYMMDD.
func FormatTradeDate(t time.Time) string {
	return t.Format(TradeDateLayout)
}
