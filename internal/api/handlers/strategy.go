package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/internal/screen"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// StrategyService is the service surface the strategy handlers call.
type StrategyService interface {
	EnsureAndScreen(ctx context.Context, criteria market.FilterCriteria) (*screen.Result, error)
	EnsureAndPctFilter(ctx context.Context, criteria market.PctCriteria) (*screen.PctResult, error)
	SyncInstruments(ctx context.Context) (int, error)
	SyncDay(ctx context.Context, tradeDate string) (map[string]int, error)
}

// StrategyHandler handles the screening API endpoints.
type StrategyHandler struct {
	service StrategyService
	logger  *logger.Logger
}

// NewStrategyHandler creates a new strategy handler.
func NewStrategyHandler(service StrategyService, log *logger.Logger) *StrategyHandler {
	return &StrategyHandler{
		service: service,
		logger:  log,
	}
}

// MfFilterRequest is the money-flow screen request body. Omitted optional
// fields take the documented defaults; nil stays nil for the unbounded ones.
type MfFilterRequest struct {
	TradeDate string `json:"trade_date"`

	MinPct *float64 `json:"min_pct,omitempty"`
	MaxPct *float64 `json:"max_pct,omitempty"`

	MinCircMv *float64 `json:"min_circ_mv,omitempty"`
	MaxCircMv *float64 `json:"max_circ_mv,omitempty"`

	MinPe *float64 `json:"min_pe,omitempty"`
	MaxPe *float64 `json:"max_pe,omitempty"`

	MinTurnoverRate *float64 `json:"min_turnover_rate,omitempty"`
	MaxTurnoverRate *float64 `json:"max_turnover_rate,omitempty"`

	MinNetMfAmount *float64 `json:"min_net_mf_amount,omitempty"`

	MfTopN *int `json:"mf_top_n,omitempty"`
}

// criteria translates the request into engine criteria, filling defaults.
func (req *MfFilterRequest) criteria() market.FilterCriteria {
	c := market.DefaultFilterCriteria(req.TradeDate)

	if req.MinPct != nil {
		c.MinPct = *req.MinPct
	}
	if req.MaxPct != nil {
		c.MaxPct = *req.MaxPct
	}
	if req.MinCircMv != nil {
		c.MinCircMv = *req.MinCircMv
	}
	c.MaxCircMv = req.MaxCircMv
	if req.MinPe != nil {
		c.MinPe = *req.MinPe
	}
	if req.MaxPe != nil {
		c.MaxPe = *req.MaxPe
	}
	if req.MinTurnoverRate != nil {
		c.MinTurnoverRate = *req.MinTurnoverRate
	}
	c.MaxTurnoverRate = req.MaxTurnoverRate
	c.MinNetMfAmount = req.MinNetMfAmount
	if req.MfTopN != nil {
		c.TopN = *req.MfTopN
	}

	return c
}

// MfFilter runs the money-flow screen, materializing the date on demand.
// POST /api/v1/strategy/mf-filter
func (h *StrategyHandler) MfFilter(w http.ResponseWriter, r *http.Request) {
	var req MfFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.EnsureAndScreen(r.Context(), req.criteria())
	if err != nil {
		h.logger.WithError(err).WithField("trade_date", req.TradeDate).
			Error("Screen request failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// PctFilterRequest is the legacy percent-change filter request body.
type PctFilterRequest struct {
	TradeDate string   `json:"trade_date"`
	MinPct    *float64 `json:"min_pct,omitempty"`
	MaxPct    *float64 `json:"max_pct,omitempty"`
}

// PctFilter runs the legacy percent-change filter.
// POST /api/v1/strategy/pct-filter
func (h *StrategyHandler) PctFilter(w http.ResponseWriter, r *http.Request) {
	var req PctFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	criteria := market.DefaultPctCriteria(req.TradeDate)
	if req.MinPct != nil {
		criteria.MinPct = *req.MinPct
	}
	if req.MaxPct != nil {
		criteria.MaxPct = *req.MaxPct
	}

	result, err := h.service.EnsureAndPctFilter(r.Context(), criteria)
	if err != nil {
		h.logger.WithError(err).WithField("trade_date", req.TradeDate).
			Error("Pct filter request failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// SyncStatusResponse reports the outcome of a sync operation.
type SyncStatusResponse struct {
	Message     string         `json:"message"`
	SyncedCount int            `json:"synced_count,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
}

// SyncStocks refreshes the instrument roster.
// POST /api/v1/strategy/sync-stocks
func (h *StrategyHandler) SyncStocks(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.SyncInstruments(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Instrument sync failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, SyncStatusResponse{
		Message:     "instrument roster synced",
		SyncedCount: count,
	})
}

// SyncDaily forces re-materialization of all dataset kinds for a date.
// POST /api/v1/strategy/sync-daily/{trade_date}
func (h *StrategyHandler) SyncDaily(w http.ResponseWriter, r *http.Request) {
	tradeDate := mux.Vars(r)["trade_date"]

	counts, err := h.service.SyncDay(r.Context(), tradeDate)
	if err != nil {
		h.logger.WithError(err).WithField("trade_date", tradeDate).
			Error("Day sync failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, SyncStatusResponse{
		Message: fmt.Sprintf("day snapshots synced for %s", tradeDate),
		Counts:  counts,
	})
}
