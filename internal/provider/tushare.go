package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/pkg/config"
	"github.com/zhongcheng0519/openstock/pkg/httputil"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// Field lists requested per dataset. Keeping them explicit pins the wire
// contract; rows are still decoded by the response's own field order.
const (
	quoteFields = "ts_code,trade_date,open,high,low,close,pre_close,change,pct_chg,vol,amount"
	basicFields = "ts_code,trade_date,close,turnover_rate,volume_ratio,pe,pb,total_mv,circ_mv"
	flowFields  = "ts_code,trade_date," +
		"buy_sm_vol,buy_sm_amount,sell_sm_vol,sell_sm_amount," +
		"buy_md_vol,buy_md_amount,sell_md_vol,sell_md_amount," +
		"buy_lg_vol,buy_lg_amount,sell_lg_vol,sell_lg_amount," +
		"buy_elg_vol,buy_elg_amount,sell_elg_vol,sell_elg_amount," +
		"net_mf_vol,net_mf_amount"
	stockFields = "ts_code,symbol,name,area,industry,list_date"
)

// TushareClient implements Gateway over the Tushare pro_api HTTP endpoint.
type TushareClient struct {
	http    *httputil.Client
	baseURL string
	token   string
	logger  *logger.Logger
}

// NewTushareClient creates a new Tushare client from config.
func NewTushareClient(cfg *config.Config, log *logger.Logger) *TushareClient {
	client := httputil.New(log, cfg.Tushare.Timeout).
		WithRateLimit(cfg.Tushare.RateLimitPerMin)

	return &TushareClient{
		http:    client,
		baseURL: cfg.Tushare.BaseURL,
		token:   cfg.Tushare.Token,
		logger:  log.WithField("module", "tushare"),
	}
}

// apiRequest is the pro_api envelope. Every dataset is the same POST with a
// different api_name.
type apiRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

// apiResponse is the pro_api response envelope.
type apiResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string            `json:"fields"`
		Items  [][]json.RawMessage `json:"items"`
	} `json:"data"`
}

// FetchDay retrieves the full-day snapshot of one dataset kind.
func (c *TushareClient) FetchDay(ctx context.Context, kind market.DatasetKind, date time.Time) (*market.Batch, error) {
	var apiName, fields string
	switch kind {
	case market.KindQuotes:
		apiName, fields = "daily", quoteFields
	case market.KindFundamentals:
		apiName, fields = "daily_basic", basicFields
	case market.KindMoneyFlow:
		apiName, fields = "moneyflow", flowFields
	default:
		return nil, fmt.Errorf("unknown dataset kind %d", int(kind))
	}

	rs, err := c.call(ctx, apiName, fields, map[string]string{
		"trade_date": market.FormatTradeDate(date),
	})
	if err != nil {
		return nil, err
	}
	if len(rs.items) == 0 {
		return nil, fmt.Errorf("%s snapshot for %s: %w",
			apiName, market.FormatTradeDate(date), ErrEmptyBatch)
	}

	batch := &market.Batch{Kind: kind, TradeDate: date}
	switch kind {
	case market.KindQuotes:
		batch.Quotes = rs.quotes(date)
	case market.KindFundamentals:
		batch.Fundamentals = rs.fundamentals(date)
	case market.KindMoneyFlow:
		batch.MoneyFlows = rs.moneyFlows(date)
	}

	c.logger.WithFields(map[string]interface{}{
		"kind":       kind.String(),
		"trade_date": market.FormatTradeDate(date),
		"rows":       batch.Len(),
	}).Debug("Fetched day snapshot")

	return batch, nil
}

// FetchInstruments retrieves the full listed-instrument roster.
func (c *TushareClient) FetchInstruments(ctx context.Context) ([]market.Instrument, error) {
	rs, err := c.call(ctx, "stock_basic", stockFields, map[string]string{
		"exchange":    "",
		"list_status": "L",
	})
	if err != nil {
		return nil, err
	}

	instruments := make([]market.Instrument, 0, len(rs.items))
	for _, row := range rs.items {
		inst := market.Instrument{
			TsCode:   rs.str(row, "ts_code"),
			Symbol:   rs.str(row, "symbol"),
			Name:     rs.str(row, "name"),
			Area:     rs.str(row, "area"),
			Industry: rs.str(row, "industry"),
			ListDate: rs.str(row, "list_date"),
		}
		if inst.TsCode == "" {
			continue
		}
		instruments = append(instruments, inst)
	}
	return instruments, nil
}

// call posts one pro_api request and returns the decoded result set.
func (c *TushareClient) call(ctx context.Context, apiName, fields string, params map[string]string) (*resultSet, error) {
	req := apiRequest{
		APIName: apiName,
		Token:   c.token,
		Params:  params,
		Fields:  fields,
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL, req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", apiName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s request: unexpected status %d: %s",
			apiName, resp.StatusCode, bytes.TrimSpace(body))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%s response decode: %w", apiName, err)
	}

	if envelope.Code != 0 {
		return nil, &APIError{Code: envelope.Code, Msg: envelope.Msg}
	}

	fieldIndex := make(map[string]int, len(envelope.Data.Fields))
	for i, name := range envelope.Data.Fields {
		fieldIndex[name] = i
	}

	return &resultSet{fields: fieldIndex, items: envelope.Data.Items}, nil
}

// resultSet indexes a pro_api data block by field name.
type resultSet struct {
	fields map[string]int
	items  [][]json.RawMessage
}

// str decodes a string field; null or missing becomes "".
func (rs *resultSet) str(row []json.RawMessage, field string) string {
	idx, ok := rs.fields[field]
	if !ok || idx >= len(row) {
		return ""
	}
	raw := row[idx]
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// dec decodes a numeric field; null or missing becomes zero. The feed is
// 4-fractional-digit fixed precision, which decimal preserves exactly.
func (rs *resultSet) dec(row []json.RawMessage, field string) decimal.Decimal {
	idx, ok := rs.fields[field]
	if !ok || idx >= len(row) {
		return decimal.Zero
	}
	raw := row[idx]
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}
	return d
}

func (rs *resultSet) quotes(date time.Time) []market.DailyQuote {
	quotes := make([]market.DailyQuote, 0, len(rs.items))
	for _, row := range rs.items {
		code := rs.str(row, "ts_code")
		if code == "" {
			continue
		}
		quotes = append(quotes, market.DailyQuote{
			TsCode:    code,
			TradeDate: date,
			Open:      rs.dec(row, "open"),
			High:      rs.dec(row, "high"),
			Low:       rs.dec(row, "low"),
			Close:     rs.dec(row, "close"),
			PreClose:  rs.dec(row, "pre_close"),
			Change:    rs.dec(row, "change"),
			PctChg:    rs.dec(row, "pct_chg"),
			Vol:       rs.dec(row, "vol"),
			Amount:    rs.dec(row, "amount"),
		})
	}
	return quotes
}

func (rs *resultSet) fundamentals(date time.Time) []market.DailyFundamental {
	fundamentals := make([]market.DailyFundamental, 0, len(rs.items))
	for _, row := range rs.items {
		code := rs.str(row, "ts_code")
		if code == "" {
			continue
		}
		fundamentals = append(fundamentals, market.DailyFundamental{
			TsCode:       code,
			TradeDate:    date,
			Close:        rs.dec(row, "close"),
			TurnoverRate: rs.dec(row, "turnover_rate"),
			VolumeRatio:  rs.dec(row, "volume_ratio"),
			Pe:           rs.dec(row, "pe"),
			Pb:           rs.dec(row, "pb"),
			TotalMv:      rs.dec(row, "total_mv"),
			CircMv:       rs.dec(row, "circ_mv"),
		})
	}
	return fundamentals
}

func (rs *resultSet) moneyFlows(date time.Time) []market.MoneyFlow {
	flows := make([]market.MoneyFlow, 0, len(rs.items))
	for _, row := range rs.items {
		code := rs.str(row, "ts_code")
		if code == "" {
			continue
		}
		flows = append(flows, market.MoneyFlow{
			TsCode:    code,
			TradeDate: date,

			BuySmVol:      rs.dec(row, "buy_sm_vol"),
			BuySmAmount:   rs.dec(row, "buy_sm_amount"),
			SellSmVol:     rs.dec(row, "sell_sm_vol"),
			SellSmAmount:  rs.dec(row, "sell_sm_amount"),
			BuyMdVol:      rs.dec(row, "buy_md_vol"),
			BuyMdAmount:   rs.dec(row, "buy_md_amount"),
			SellMdVol:     rs.dec(row, "sell_md_vol"),
			SellMdAmount:  rs.dec(row, "sell_md_amount"),
			BuyLgVol:      rs.dec(row, "buy_lg_vol"),
			BuyLgAmount:   rs.dec(row, "buy_lg_amount"),
			SellLgVol:     rs.dec(row, "sell_lg_vol"),
			SellLgAmount:  rs.dec(row, "sell_lg_amount"),
			BuyElgVol:     rs.dec(row, "buy_elg_vol"),
			BuyElgAmount:  rs.dec(row, "buy_elg_amount"),
			SellElgVol:    rs.dec(row, "sell_elg_vol"),
			SellElgAmount: rs.dec(row, "sell_elg_amount"),

			NetMfVol:    rs.dec(row, "net_mf_vol"),
			NetMfAmount: rs.dec(row, "net_mf_amount"),
		})
	}
	return flows
}
