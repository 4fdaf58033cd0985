package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/pkg/config"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *TushareClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Tushare: config.TushareConfig{
			Token:           "test-token",
			BaseURL:         server.URL,
			Timeout:         5 * time.Second,
			RateLimitPerMin: 100000,
		},
	}

	return NewTushareClient(cfg, logger.New(cfg))
}

func envelope(fields []string, items [][]interface{}) string {
	payload := map[string]interface{}{
		"code": 0,
		"msg":  "",
		"data": map[string]interface{}{
			"fields": fields,
			"items":  items,
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestFetchDayQuotes(t *testing.T) {
	var gotReq map[string]interface{}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(envelope(
			// Deliberately not in request order: decoding must follow the
			// response's own field list.
			[]string{"trade_date", "ts_code", "close", "pct_chg", "open", "vol"},
			[][]interface{}{
				{"20260827", "000001.SZ", 12.3456, 2.51, 12.0, 1234567.0},
				{"20260827", "600000.SH", nil, -1.02, 8.8, nil},
			},
		)))
	})

	date, _ := market.ParseTradeDate("20260827")
	batch, err := client.FetchDay(context.Background(), market.KindQuotes, date)
	require.NoError(t, err)

	assert.Equal(t, "daily", gotReq["api_name"])
	assert.Equal(t, "test-token", gotReq["token"])
	params := gotReq["params"].(map[string]interface{})
	assert.Equal(t, "20260827", params["trade_date"])

	require.Equal(t, market.KindQuotes, batch.Kind)
	require.Len(t, batch.Quotes, 2)

	first := batch.Quotes[0]
	assert.Equal(t, "000001.SZ", first.TsCode)
	assert.Equal(t, date, first.TradeDate)
	assert.Equal(t, "12.3456", first.Close.String())
	assert.Equal(t, "2.51", first.PctChg.String())

	// Null numeric fields decode to zero instead of failing the row.
	second := batch.Quotes[1]
	assert.True(t, second.Close.IsZero())
	assert.True(t, second.Vol.IsZero())
	assert.Equal(t, "-1.02", second.PctChg.String())
}

func TestFetchDayMoneyFlow(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "moneyflow", req["api_name"])

		w.Write([]byte(envelope(
			[]string{"ts_code", "trade_date", "net_mf_vol", "net_mf_amount", "buy_lg_amount"},
			[][]interface{}{
				{"000001.SZ", "20260827", 5000.0, 12345.6789, 88888.0},
			},
		)))
	})

	date, _ := market.ParseTradeDate("20260827")
	batch, err := client.FetchDay(context.Background(), market.KindMoneyFlow, date)
	require.NoError(t, err)
	require.Len(t, batch.MoneyFlows, 1)

	flow := batch.MoneyFlows[0]
	assert.Equal(t, "12345.6789", flow.NetMfAmount.String())
	assert.Equal(t, "88888", flow.BuyLgAmount.String())
	// Fields absent from the response decode to zero.
	assert.True(t, flow.SellSmVol.IsZero())
}

func TestFetchDayEmptyBatch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelope([]string{"ts_code"}, [][]interface{}{})))
	})

	date, _ := market.ParseTradeDate("20260829")
	_, err := client.FetchDay(context.Background(), market.KindQuotes, date)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyBatch))
}

func TestFetchDayAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 40203, "msg": "rate limit exceeded", "data": null}`))
	})

	date, _ := market.ParseTradeDate("20260827")
	_, err := client.FetchDay(context.Background(), market.KindFundamentals, date)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 40203, apiErr.Code)
	assert.Equal(t, "rate limit exceeded", apiErr.Msg)
}

func TestFetchDayHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	date, _ := market.ParseTradeDate("20260827")
	_, err := client.FetchDay(context.Background(), market.KindQuotes, date)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchDayUnknownKind(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called for an unknown kind")
	})

	date, _ := market.ParseTradeDate("20260827")
	_, err := client.FetchDay(context.Background(), market.DatasetKind(42), date)
	require.Error(t, err)
}

func TestFetchInstruments(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "stock_basic", req["api_name"])

		w.Write([]byte(envelope(
			[]string{"ts_code", "symbol", "name", "area", "industry", "list_date"},
			[][]interface{}{
				{"000001.SZ", "000001", "平安银行", "深圳", "银行", "19910403"},
				{nil, "000000", "bad row", nil, nil, nil},
				{"600000.SH", "600000", "浦发银行", "上海", "银行", "19991110"},
			},
		)))
	})

	instruments, err := client.FetchInstruments(context.Background())
	require.NoError(t, err)

	// The row without a ts_code is dropped.
	require.Len(t, instruments, 2)
	assert.Equal(t, "000001.SZ", instruments[0].TsCode)
	assert.Equal(t, "平安银行", instruments[0].Name)
	assert.Equal(t, "19991110", instruments[1].ListDate)
}
