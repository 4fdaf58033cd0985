package market

import (
	"fmt"
	"time"
)

// Default bounds for the money-flow screen. Unset optional bounds stay nil
// and translate to unbounded predicates.
const (
	DefaultMinPct          = -100.0
	DefaultMaxPct          = 100.0
	DefaultMinCircMv       = 500000.0
	DefaultMinPe           = 0.0
	DefaultMaxPe           = 50.0
	DefaultMinTurnoverRate = 5.0
	DefaultTopN            = 30
)

// FilterCriteria describes one money-flow screen request: a trading date
// plus a conjunction of closed-interval bounds and a post-ranking limit.
// It is a value object, never persisted.
type FilterCriteria struct {
	TradeDate string // YYYYMMDD

	MinPct float64
	MaxPct float64

	MinCircMv float64
	MaxCircMv *float64 // nil = unbounded above

	MinPe float64
	MaxPe float64

	MinTurnoverRate float64
	MaxTurnoverRate *float64 // nil = unbounded above

	MinNetMfAmount *float64 // nil = no net-flow constraint

	TopN int // result limit, applied after ranking
}

// DefaultFilterCriteria returns the screen defaults for a trading date.
func DefaultFilterCriteria(tradeDate string) FilterCriteria {
	return FilterCriteria{
		TradeDate:       tradeDate,
		MinPct:          DefaultMinPct,
		MaxPct:          DefaultMaxPct,
		MinCircMv:       DefaultMinCircMv,
		MinPe:           DefaultMinPe,
		MaxPe:           DefaultMaxPe,
		MinTurnoverRate: DefaultMinTurnoverRate,
		TopN:            DefaultTopN,
	}
}

// Date parses the criteria's trading date.
func (c *FilterCriteria) Date() (time.Time, error) {
	return ParseTradeDate(c.TradeDate)
}

// Validate fails fast on malformed input: bad date format, inverted bound
// pairs, or a non-positive limit. No I/O happens before validation passes.
func (c *FilterCriteria) Validate() error {
	if _, err := ParseTradeDate(c.TradeDate); err != nil {
		return err
	}

	if c.MinPct > c.MaxPct {
		return boundsError("pct", c.MinPct, c.MaxPct)
	}
	if c.MaxCircMv != nil && c.MinCircMv > *c.MaxCircMv {
		return boundsError("circ_mv", c.MinCircMv, *c.MaxCircMv)
	}
	if c.MinPe > c.MaxPe {
		return boundsError("pe", c.MinPe, c.MaxPe)
	}
	if c.MaxTurnoverRate != nil && c.MinTurnoverRate > *c.MaxTurnoverRate {
		return boundsError("turnover_rate", c.MinTurnoverRate, *c.MaxTurnoverRate)
	}

	if c.TopN <= 0 {
		return &ValidationError{Field: "mf_top_n", Reason: "must be positive"}
	}

	return nil
}

// PctCriteria describes one legacy percent-change filter request.
// This path queries quotes only and returns the full matching set,
// ordered by percent change descending, without truncation.
type PctCriteria struct {
	TradeDate string // YYYYMMDD
	MinPct    float64
	MaxPct    float64
}

// Legacy pct-filter defaults.
const (
	DefaultPctFilterMin = -10.0
	DefaultPctFilterMax = 10.0
)

// DefaultPctCriteria returns the legacy filter defaults for a trading date.
func DefaultPctCriteria(tradeDate string) PctCriteria {
	return PctCriteria{
		TradeDate: tradeDate,
		MinPct:    DefaultPctFilterMin,
		MaxPct:    DefaultPctFilterMax,
	}
}

// Date parses the criteria's trading date.
func (c *PctCriteria) Date() (time.Time, error) {
	return ParseTradeDate(c.TradeDate)
}

// Validate fails fast on malformed input.
func (c *PctCriteria) Validate() error {
	if _, err := ParseTradeDate(c.TradeDate); err != nil {
		return err
	}
	if c.MinPct > c.MaxPct {
		return boundsError("pct", c.MinPct, c.MaxPct)
	}
	return nil
}

func boundsError(field string, min, max float64) error {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("min bound %v is greater than max bound %v", min, max),
	}
}
