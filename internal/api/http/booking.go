package http

import (
	"fmt"
	"net/http"
	"time"

	"stableride-backend/internal/domain"
)

type createBookingRequest struct {
	StableID  int64     `json:"stable_id"`
	HorseID   int64     `json:"horse_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type walkInBookingRequest struct {
	RiderEmail string    `json:"rider_email"`
	StableID   int64     `json:"stable_id"`
	HorseID    int64     `json:"horse_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type rescheduleRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	booking, err := h.bookings.CreateBooking(r.Context(), actor, req.StableID, req.HorseID, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("created")
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) CreateWalkInBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req walkInBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	booking, err := h.bookings.CreateWalkInBooking(r.Context(), actor, req.RiderEmail, req.StableID, req.HorseID, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("walk_in")
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req rescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	booking, err := h.bookings.RescheduleBooking(r.Context(), actor, id, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("rescheduled")
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	booking, err := h.bookings.CancelBooking(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("cancelled")
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookings.CompleteBooking(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("completed")
	writeJSON(w, http.StatusOK, booking)
}

type scoreRequest struct {
	RidingSkillLevel int    `json:"riding_skill_level"`
	BehaviorRating   int    `json:"behavior_rating"`
	Comment          string `json:"comment"`
}

func (h *Handler) ScoreBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	summary, err := h.scoring.ScoreRide(r.Context(), actor, id, req.RidingSkillLevel, req.BehaviorRating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("scored")
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListRiderBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	riderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	status := domain.BookingStatus(r.URL.Query().Get("status"))
	bookings, total, err := h.bookings.ListRiderBookings(r.Context(), actor, riderID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: bookings, Total: total, Page: page, PageSize: pageSize})
}

func (h *Handler) ListStableBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	stableID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	status := domain.BookingStatus(r.URL.Query().Get("status"))
	bookings, total, err := h.bookings.ListStableBookings(r.Context(), actor, stableID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: bookings, Total: total, Page: page, PageSize: pageSize})
}
