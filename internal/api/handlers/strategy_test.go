package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/internal/materialize"
	"github.com/zhongcheng0519/openstock/internal/provider"
	"github.com/zhongcheng0519/openstock/internal/screen"
	"github.com/zhongcheng0519/openstock/pkg/config"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

type fakeService struct {
	gotCriteria    market.FilterCriteria
	gotPctCriteria market.PctCriteria
	screenResult   *screen.Result
	pctResult      *screen.PctResult
	syncCount      int
	dayCounts      map[string]int
	failWith       error
}

func (s *fakeService) EnsureAndScreen(ctx context.Context, criteria market.FilterCriteria) (*screen.Result, error) {
	s.gotCriteria = criteria
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.screenResult, nil
}

func (s *fakeService) EnsureAndPctFilter(ctx context.Context, criteria market.PctCriteria) (*screen.PctResult, error) {
	s.gotPctCriteria = criteria
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.pctResult, nil
}

func (s *fakeService) SyncInstruments(ctx context.Context) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.syncCount, nil
}

func (s *fakeService) SyncDay(ctx context.Context, tradeDate string) (map[string]int, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.dayCounts, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestMfFilterDefaults(t *testing.T) {
	service := &fakeService{
		screenResult: &screen.Result{
			TradeDate: "20260827",
			Count:     1,
			Records: []market.InstrumentSnapshot{
				{TsCode: "000001.SZ", NetMfAmount: decimal.NewFromInt(12345)},
			},
		},
	}
	h := NewStrategyHandler(service, testLogger())

	rec := postJSON(t, h.MfFilter, "/api/v1/strategy/mf-filter",
		`{"trade_date": "20260827"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	// Omitted fields take documented defaults; optional upper bounds stay nil.
	c := service.gotCriteria
	assert.Equal(t, "20260827", c.TradeDate)
	assert.Equal(t, market.DefaultMinPct, c.MinPct)
	assert.Equal(t, market.DefaultMinCircMv, c.MinCircMv)
	assert.Equal(t, market.DefaultTopN, c.TopN)
	assert.Nil(t, c.MaxCircMv)
	assert.Nil(t, c.MaxTurnoverRate)
	assert.Nil(t, c.MinNetMfAmount)

	var resp screen.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "000001.SZ", resp.Records[0].TsCode)
}

func TestMfFilterExplicitBounds(t *testing.T) {
	service := &fakeService{screenResult: &screen.Result{TradeDate: "20260827"}}
	h := NewStrategyHandler(service, testLogger())

	rec := postJSON(t, h.MfFilter, "/api/v1/strategy/mf-filter", `{
		"trade_date": "20260827",
		"min_pct": 1.5,
		"max_circ_mv": 2000000,
		"min_net_mf_amount": 0,
		"mf_top_n": 10
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	c := service.gotCriteria
	assert.Equal(t, 1.5, c.MinPct)
	require.NotNil(t, c.MaxCircMv)
	assert.Equal(t, 2000000.0, *c.MaxCircMv)
	require.NotNil(t, c.MinNetMfAmount)
	assert.Equal(t, 0.0, *c.MinNetMfAmount)
	assert.Equal(t, 10, c.TopN)
}

func TestMfFilterMalformedBody(t *testing.T) {
	service := &fakeService{}
	h := NewStrategyHandler(service, testLogger())

	rec := postJSON(t, h.MfFilter, "/api/v1/strategy/mf-filter", `{"trade_date":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMfFilterErrorMapping(t *testing.T) {
	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        &market.ValidationError{Field: "pct", Reason: "inverted"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not materialized",
			err:        &screen.NotMaterializedError{Kind: market.KindQuotes, Date: date},
			wantStatus: http.StatusConflict,
		},
		{
			name: "empty upstream day",
			err: &materialize.FetchError{
				Kind: market.KindQuotes, Date: date,
				Err: provider.ErrEmptyBatch,
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "upstream failure",
			err: &materialize.FetchError{
				Kind: market.KindQuotes, Date: date,
				Err: errors.New("connection refused"),
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "storage failure",
			err: &materialize.PersistError{
				Kind: market.KindQuotes, Date: date,
				Err: errors.New("deadlock"),
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{failWith: tt.err}
			h := NewStrategyHandler(service, testLogger())

			rec := postJSON(t, h.MfFilter, "/api/v1/strategy/mf-filter",
				`{"trade_date": "20260827"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPctFilterDefaults(t *testing.T) {
	service := &fakeService{
		pctResult: &screen.PctResult{TradeDate: "20260827", Count: 0},
	}
	h := NewStrategyHandler(service, testLogger())

	rec := postJSON(t, h.PctFilter, "/api/v1/strategy/pct-filter",
		`{"trade_date": "20260827"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, market.DefaultPctFilterMin, service.gotPctCriteria.MinPct)
	assert.Equal(t, market.DefaultPctFilterMax, service.gotPctCriteria.MaxPct)
}

func TestSyncStocks(t *testing.T) {
	service := &fakeService{syncCount: 5234}
	h := NewStrategyHandler(service, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/strategy/sync-stocks", nil)
	rec := httptest.NewRecorder()
	h.SyncStocks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SyncStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5234, resp.SyncedCount)
}

func TestSyncDaily(t *testing.T) {
	service := &fakeService{
		dayCounts: map[string]int{"quotes": 5000, "fundamentals": 4980, "moneyflow": 4970},
	}
	h := NewStrategyHandler(service, testLogger())

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/strategy/sync-daily/{trade_date}", h.SyncDaily).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/strategy/sync-daily/20260827", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SyncStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5000, resp.Counts["quotes"])
	assert.Contains(t, resp.Message, "20260827")
}
