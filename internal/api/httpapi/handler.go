package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
	"github.com/sapphires-iaq/filterwatch/internal/logger"
	"github.com/sapphires-iaq/filterwatch/internal/repository/store"
)

// Service is the serialized evaluation loop the handlers talk to.
type Service interface {
	// View returns the current presentation tuple without advancing the
	// state machine.
	View(ctx context.Context) filter.View
	// Apply feeds one operator trigger through the state machine and
	// returns the resulting view.
	Apply(ctx context.Context, trigger filter.Trigger) filter.View
	// FanOn reports whether the fan is effectively running.
	FanOn(ctx context.Context) bool
}

// Readings serves the sensor data shown on the dashboard.
type Readings interface {
	LatestIndoor(ctx context.Context) (*store.IndoorReading, error)
	LatestOutdoor(ctx context.Context) (*store.OutdoorReading, error)
	RecentIndoorPM(ctx context.Context, limit int) ([]store.PMSample, error)
	RecentOutdoorPM(ctx context.Context, limit int) ([]store.PMSample, error)
}

// Handler routes the operator API.
type Handler struct {
	service  Service
	readings Readings
}

// NewHandler creates the operator API handler.
func NewHandler(service Service, readings Readings) *Handler {
	return &Handler{
		service:  service,
		readings: readings,
	}
}

// actionRequest is the browser's posted trigger.
type actionRequest struct {
	Trigger string `json:"trigger"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// fanResponse reports the effective fan status.
type fanResponse struct {
	FanOn bool `json:"fan_on"`
}

// latestReadingsResponse bundles the newest row of each feed. A missing
// feed is null rather than an error.
type latestReadingsResponse struct {
	Indoor  *store.IndoorReading  `json:"indoor"`
	Outdoor *store.OutdoorReading `json:"outdoor"`
}

// historyResponse carries one feed's recent PM samples, oldest first.
type historyResponse struct {
	Source  string           `json:"source"`
	Samples []store.PMSample `json:"samples"`
}

// ServeHTTP dispatches by path and method.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/v1/view" && r.Method == http.MethodGet:
		h.getView(w, r)
	case path == "/api/v1/actions" && r.Method == http.MethodPost:
		h.postAction(w, r)
	case path == "/api/v1/fan" && r.Method == http.MethodGet:
		h.getFan(w, r)
	case path == "/api/v1/readings/latest" && r.Method == http.MethodGet:
		h.getLatestReadings(w, r)
	case path == "/api/v1/readings/history" && r.Method == http.MethodGet:
		h.getHistory(w, r)
	case path == "/api/v1/view" || path == "/api/v1/actions" ||
		path == "/api/v1/fan" || path == "/api/v1/readings/latest" ||
		path == "/api/v1/readings/history":
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	}
}

// getView returns the current dialog flags and status line.
func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.View(r.Context()))
}

// postAction applies one operator trigger. Unknown trigger names are the
// only client error; triggers invalid for the current phase are no-ops and
// still return the (unchanged) view.
func (h *Handler) postAction(w http.ResponseWriter, r *http.Request) {
	var request actionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	trigger, ok := filter.ParseTrigger(request.Trigger)
	if !ok || trigger == filter.TriggerTick {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown trigger"})
		return
	}

	logger.InfoKV(r.Context(), "Operator action received", "trigger", trigger)

	writeJSON(w, http.StatusOK, h.service.Apply(r.Context(), trigger))
}

// getFan reports the effective fan status.
func (h *Handler) getFan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fanResponse{FanOn: h.service.FanOn(r.Context())})
}

// getLatestReadings returns the newest indoor and outdoor rows.
func (h *Handler) getLatestReadings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	indoor, err := h.readings.LatestIndoor(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Indoor reading fetch failed", "error", err)
	}

	outdoor, err := h.readings.LatestOutdoor(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Outdoor reading fetch failed", "error", err)
	}

	writeJSON(w, http.StatusOK, latestReadingsResponse{Indoor: indoor, Outdoor: outdoor})
}

// getHistory returns recent PM samples for the requested feed.
// Query parameters: source=indoor|outdoor (required), limit (optional,
// capped by the repository).
func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := parseLimit(r.URL.Query().Get("limit"))

	var (
		samples []store.PMSample
		err     error
	)

	source := r.URL.Query().Get("source")
	switch source {
	case "indoor":
		samples, err = h.readings.RecentIndoorPM(ctx, limit)
	case "outdoor":
		samples, err = h.readings.RecentOutdoorPM(ctx, limit)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "source must be indoor or outdoor"})
		return
	}

	if err != nil {
		logger.WarnKV(ctx, "PM history fetch failed", "source", source, "error", err)
		samples = nil
	}

	if samples == nil {
		samples = []store.PMSample{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Source: source, Samples: samples})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseLimit(s string) int {
	if s == "" {
		return store.DefaultHistoryLimit
	}

	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return store.DefaultHistoryLimit
	}

	return limit
}
