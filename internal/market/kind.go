package market

import "fmt"

// DatasetKind identifies one of the daily dataset families the engine
// materializes and queries. The set is closed; code branches on it
// exhaustively instead of matching table names at runtime.
type DatasetKind int

const (
	KindQuotes DatasetKind = iota
	KindFundamentals
	KindMoneyFlow
)

// AllKinds returns every dataset kind in declaration order.
func AllKinds() []DatasetKind {
	return []DatasetKind{KindQuotes, KindFundamentals, KindMoneyFlow}
}

// String returns the canonical name used in logs and error messages.
func (k DatasetKind) String() string {
	switch k {
	case KindQuotes:
		return "quotes"
	case KindFundamentals:
		return "fundamentals"
	case KindMoneyFlow:
		return "moneyflow"
	default:
		return fmt.Sprintf("DatasetKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k DatasetKind) Valid() bool {
	return k >= KindQuotes && k <= KindMoneyFlow
}
