package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is a listed security. The row is created and refreshed by the
// full instrument sync; daily datasets reference it by TsCode.
type Instrument struct {
	TsCode   string `json:"ts_code"` // exchange-qualified code, e.g. 000001.SZ
	Symbol   string `json:"symbol"`  // bare code, e.g. 000001
	Name     string `json:"name"`
	Area     string `json:"area,omitempty"`
	Industry string `json:"industry,omitempty"`
	ListDate string `json:"list_date,omitempty"` // YYYYMMDD
}

// DailyQuote is one instrument's OHLCV row for a trading date.
// Prices and amounts are fixed-precision decimals; the upstream feed
// carries 4 fractional digits and float arithmetic would drift.
type DailyQuote struct {
	TsCode    string          `json:"ts_code"`
	TradeDate time.Time       `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	PreClose  decimal.Decimal `json:"pre_close"`
	Change    decimal.Decimal `json:"change"`
	PctChg    decimal.Decimal `json:"pct_chg"`
	Vol       decimal.Decimal `json:"vol"`    // lots
	Amount    decimal.Decimal `json:"amount"` // thousand CNY
}

// DailyFundamental is one instrument's valuation snapshot for a trading
// date (the upstream "daily_basic" dataset).
type DailyFundamental struct {
	TsCode       string          `json:"ts_code"`
	TradeDate    time.Time       `json:"trade_date"`
	Close        decimal.Decimal `json:"close"`
	TurnoverRate decimal.Decimal `json:"turnover_rate"` // percent
	VolumeRatio  decimal.Decimal `json:"volume_ratio"`
	Pe           decimal.Decimal `json:"pe"`
	Pb           decimal.Decimal `json:"pb"`
	TotalMv      decimal.Decimal `json:"total_mv"` // ten-thousand CNY
	CircMv       decimal.Decimal `json:"circ_mv"`  // float-adjusted, ten-thousand CNY
}

// MoneyFlow is one instrument's order-flow breakdown for a trading date,
// split into four order-size tiers plus the net figures used for ranking.
type MoneyFlow struct {
	TsCode    string    `json:"ts_code"`
	TradeDate time.Time `json:"trade_date"`

	BuySmVol      decimal.Decimal `json:"buy_sm_vol"`
	BuySmAmount   decimal.Decimal `json:"buy_sm_amount"`
	SellSmVol     decimal.Decimal `json:"sell_sm_vol"`
	SellSmAmount  decimal.Decimal `json:"sell_sm_amount"`
	BuyMdVol      decimal.Decimal `json:"buy_md_vol"`
	BuyMdAmount   decimal.Decimal `json:"buy_md_amount"`
	SellMdVol     decimal.Decimal `json:"sell_md_vol"`
	SellMdAmount  decimal.Decimal `json:"sell_md_amount"`
	BuyLgVol      decimal.Decimal `json:"buy_lg_vol"`
	BuyLgAmount   decimal.Decimal `json:"buy_lg_amount"`
	SellLgVol     decimal.Decimal `json:"sell_lg_vol"`
	SellLgAmount  decimal.Decimal `json:"sell_lg_amount"`
	BuyElgVol     decimal.Decimal `json:"buy_elg_vol"`
	BuyElgAmount  decimal.Decimal `json:"buy_elg_amount"`
	SellElgVol    decimal.Decimal `json:"sell_elg_vol"`
	SellElgAmount decimal.Decimal `json:"sell_elg_amount"`

	NetMfVol    decimal.Decimal `json:"net_mf_vol"`
	NetMfAmount decimal.Decimal `json:"net_mf_amount"` // ten-thousand CNY
}

// Batch is one full-day snapshot of a single dataset kind as returned by
// the provider. Exactly one of the record slices is populated, matching Kind.
type Batch struct {
	Kind      DatasetKind
	TradeDate time.Time

	Quotes       []DailyQuote
	Fundamentals []DailyFundamental
	MoneyFlows   []MoneyFlow
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	switch b.Kind {
	case KindQuotes:
		return len(b.Quotes)
	case KindFundamentals:
		return len(b.Fundamentals)
	case KindMoneyFlow:
		return len(b.MoneyFlows)
	default:
		return 0
	}
}

// InstrumentSnapshot is one screened result row: the inner join of an
// instrument's quote, fundamental and money-flow data for a trading date.
type InstrumentSnapshot struct {
	TsCode    string    `json:"ts_code"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	TradeDate time.Time `json:"trade_date"`

	Close        decimal.Decimal `json:"close"`
	PctChg       decimal.Decimal `json:"pct_chg"`
	Amount       decimal.Decimal `json:"amount"`
	TurnoverRate decimal.Decimal `json:"turnover_rate"`
	VolumeRatio  decimal.Decimal `json:"volume_ratio"`
	Pe           decimal.Decimal `json:"pe"`
	Pb           decimal.Decimal `json:"pb"`
	TotalMv      decimal.Decimal `json:"total_mv"`
	CircMv       decimal.Decimal `json:"circ_mv"`
	NetMfVol     decimal.Decimal `json:"net_mf_vol"`
	NetMfAmount  decimal.Decimal `json:"net_mf_amount"`
}

// QuoteRow is one legacy pct-filter result row: a quote joined to its
// instrument for display.
type QuoteRow struct {
	TsCode    string    `json:"ts_code"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	TradeDate time.Time `json:"trade_date"`

	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	PreClose decimal.Decimal `json:"pre_close"`
	Change   decimal.Decimal `json:"change"`
	PctChg   decimal.Decimal `json:"pct_chg"`
	Vol      decimal.Decimal `json:"vol"`
	Amount   decimal.Decimal `json:"amount"`
}
