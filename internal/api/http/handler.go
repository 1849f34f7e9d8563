package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/metrics"
	"stableride-backend/internal/service"
)

// Handler carries the service layer into the mux handlers.
type Handler struct {
	bookings     service.BookingService
	availability service.AvailabilityService
	refunds      service.RefundService
	scoring      service.ScoringService
	leagues      service.LeagueService
	notes        service.NotificationService
	metrics      *metrics.Metrics
}

func NewHandler(
	bookings service.BookingService,
	availability service.AvailabilityService,
	refunds service.RefundService,
	scoring service.ScoringService,
	leagues service.LeagueService,
	notes service.NotificationService,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		bookings:     bookings,
		availability: availability,
		refunds:      refunds,
		scoring:      scoring,
		leagues:      leagues,
		notes:        notes,
		metrics:      m,
	}
}

func (h *Handler) countEvent(event string) {
	if h.metrics != nil {
		h.metrics.BookingEventsTotal.WithLabelValues(event).Inc()
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, fmt.Errorf("missing path parameter %s: %w", name, domain.ErrValidation)
	}
	return parseID(raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, domain.ErrValidation)
	}
	return id, nil
}

func actorOrFail(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	}
	return actor, ok
}

func pagination(r *http.Request) (page, pageSize int64) {
	page, _ = strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	pageSize, _ = strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 64)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

type listResponse struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
}
