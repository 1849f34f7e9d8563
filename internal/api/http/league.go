package http

import (
	"fmt"
	"net/http"

	"stableride-backend/internal/domain"
)

func (h *Handler) CurrentLeague(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorOrFail(w, r); !ok {
		return
	}
	division := domain.Division(r.URL.Query().Get("division"))
	if division == "" {
		division = domain.Divisions[0]
	}
	league, err := h.leagues.CurrentLeague(r.Context(), division)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

func (h *Handler) PromoteLeague(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.leagues.PromoteLeague(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) LeagueStandings(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorOrFail(w, r); !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	standings, err := h.leagues.Standings(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

type dedupResponse struct {
	Removed int64 `json:"removed"`
}

func (h *Handler) DeduplicateSlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		writeError(w, fmt.Errorf("slot maintenance is admin-only: %w", domain.ErrForbidden))
		return
	}
	var horseID *int64
	if raw := r.URL.Query().Get("horse_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		horseID = &id
	}
	removed, err := h.availability.DeduplicateSlots(r.Context(), horseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dedupResponse{Removed: removed})
}

func (h *Handler) RepairLeagueMemberships(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		writeError(w, fmt.Errorf("league maintenance is admin-only: %w", domain.ErrForbidden))
		return
	}
	removed, err := h.leagues.RepairMemberships(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dedupResponse{Removed: removed})
}
