package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stableride-backend/internal/metrics"
	"stableride-backend/internal/security"
)

// NewRouter wires the full HTTP surface. Health and metrics stay
// outside the auth middleware; everything under /api/v1 requires a
// valid bearer token.
func NewRouter(h *Handler, tokens security.TokenManager, m *metrics.Metrics, db *sql.DB) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	if m != nil {
		r.Use(MetricsMiddleware(m))
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/walk-in", h.CreateWalkInBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/reschedule", h.RescheduleBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/complete", h.CompleteBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/score", h.ScoreBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/refund/request", h.RequestRefund).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/refund/reject", h.RejectRefund).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/refund/process", h.ProcessRefund).Methods(http.MethodPost)

	api.HandleFunc("/riders/{id}/bookings", h.ListRiderBookings).Methods(http.MethodGet)
	api.HandleFunc("/stables/{id}/bookings", h.ListStableBookings).Methods(http.MethodGet)

	api.HandleFunc("/leagues/current", h.CurrentLeague).Methods(http.MethodGet)
	api.HandleFunc("/leagues/{id}/promote", h.PromoteLeague).Methods(http.MethodPost)
	api.HandleFunc("/leagues/{id}/standings", h.LeagueStandings).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	api.HandleFunc("/maintenance/slots/dedup", h.DeduplicateSlots).Methods(http.MethodPost)
	api.HandleFunc("/maintenance/leagues/repair", h.RepairLeagueMemberships).Methods(http.MethodPost)

	return r
}
