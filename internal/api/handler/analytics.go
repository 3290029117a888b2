package handler

import (
	"net/http"
	"strconv"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/middleware"
	"github.com/Ozeirr/ai-chatbot-platform/internal/api/response"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
)

const defaultAnalyticsDays = 30

// AnalyticsHandler handles usage analytics endpoints
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Summary handles the aggregate usage summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	summary, err := h.analyticsService.Summary(r.Context(), client.ID, days(r))
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, summary)
}

// DailySessions handles the per-day session series
func (h *AnalyticsHandler) DailySessions(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	series, err := h.analyticsService.DailySessions(r.Context(), client.ID, days(r))
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, series)
}

// DailyMessages handles the per-day message series
func (h *AnalyticsHandler) DailyMessages(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	series, err := h.analyticsService.DailyMessages(r.Context(), client.ID, days(r))
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, series)
}

// Snapshot handles persisting a daily analytics snapshot
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	snapshot, err := h.analyticsService.Snapshot(r.Context(), client.ID)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, snapshot)
}

// days reads the days query parameter, defaulting to a 30-day window
func days(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 {
		return v
	}
	return defaultAnalyticsDays
}
