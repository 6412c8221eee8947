package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlukic/matchday/fixtures"
	"github.com/mlukic/matchday/models"
	"github.com/mlukic/matchday/services"
)

type TournamentHandler struct {
	syncService *services.SyncService
}

func NewTournamentHandler(ss *services.SyncService) *TournamentHandler {
	return &TournamentHandler{syncService: ss}
}

// ListHandler handles GET /tournaments.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournaments := h.syncService.List()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := h.find(chi.URLParam(r, "tournamentID"))
	if !ok {
		notFoundResponse(w, r)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveHandler handles POST /tournaments. The body is the full tournament
// aggregate; an existing id replaces the stored aggregate, a new id creates
// it.
func (h *TournamentHandler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	var t models.Tournament
	if err := readJSON(w, r, &t); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.syncService.Save(r.Context(), &t); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// The stored aggregate may differ from the input after a remote re-fetch.
	saved, ok := h.find(t.ID)
	if !ok {
		saved = t
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": saved}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /tournaments/{tournamentID}.
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	if id == "" {
		badRequestResponse(w, r, errors.New("missing tournamentID"))
		return
	}

	if err := h.syncService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StandingsHandler handles GET /tournaments/{tournamentID}/standings.
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := h.find(chi.URLParam(r, "tournamentID"))
	if !ok {
		notFoundResponse(w, r)
		return
	}

	standings := services.ComputeStandings(&t)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScorersHandler handles GET /tournaments/{tournamentID}/scorers.
func (h *TournamentHandler) ScorersHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := h.find(chi.URLParam(r, "tournamentID"))
	if !ok {
		notFoundResponse(w, r)
		return
	}

	scorers := services.TopScorers(&t)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"scorers": scorers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateFixturesHandler handles POST /tournaments/{tournamentID}/fixtures.
// It regenerates the round-robin schedule from the tournament's current teams
// and persists the updated aggregate.
func (h *TournamentHandler) GenerateFixturesHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := h.find(chi.URLParam(r, "tournamentID"))
	if !ok {
		notFoundResponse(w, r)
		return
	}

	matches, err := fixtures.Generate(&t)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t.Fixtures = matches
	t.Status = models.StatusActive
	if err := h.syncService.Save(r.Context(), &t); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DrawTeamsHandler handles POST /tournaments/draw. It performs a hat-based
// team draw over the submitted player pool and returns the teams without
// persisting anything; the client includes them in a later save.
func (h *TournamentHandler) DrawTeamsHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Players  []models.Player `json:"players"`
		TeamSize int             `json:"teamSize"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := fixtures.DrawTeams(input.Players, input.TeamSize)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) find(id string) (models.Tournament, bool) {
	if id == "" {
		return models.Tournament{}, false
	}
	for _, t := range h.syncService.List() {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tournament{}, false
}
