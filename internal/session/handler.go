package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"falconsphere/pkg/filter"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoSession):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyStarted), errors.Is(err, ErrGameOver), errors.Is(err, ErrPlayerFinished):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, filter.ErrProfanity):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

type CreateRequest struct {
	SetID uint `json:"set_id"`
}

// Create handles POST /api/sessions: mint a join code for a study set.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	game, err := h.service.Create(r.Context(), req.SetID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":  game.Code,
		"state": game.ToDTO(true),
	})
}

// Get handles GET /api/sessions/{code}: the full state snapshot. The host
// query flag includes correct answers.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	game, err := h.service.Get(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	isHost := r.URL.Query().Get("host") == "true"
	json.NewEncoder(w).Encode(game.ToDTO(isHost))
}

// Exists handles GET /api/sessions/{code}/exists: the join page checks a
// code before navigating.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	exists, err := h.service.Exists(r.Context(), code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"exists": exists})
}

type JoinRequest struct {
	Name string `json:"name"`
}

// Join handles POST /api/sessions/{code}/join.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	player, game, err := h.service.Join(r.Context(), code, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"player": player,
		"state":  game.ToDTO(false),
	})
}

// Start handles POST /api/sessions/{code}/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.service.Start(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// Advance handles POST /api/sessions/{code}/advance.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.service.AdvanceSlide(code); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// End handles POST /api/sessions/{code}/end.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.service.End(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ended"})
}

type AnnounceRequest struct {
	Text string `json:"text"`
}

// Announce handles POST /api/sessions/{code}/announce.
func (h *Handler) Announce(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req AnnounceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.service.Announce(r.Context(), code, req.Text); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type AnswerRequest struct {
	PlayerID  string   `json:"player_id"`
	Answers   []string `json:"answers"`
	TimeSpent float64  `json:"time_spent"`
}

// Answer handles POST /api/sessions/{code}/answer.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	correct, player, err := h.service.SubmitAnswer(r.Context(), code, req.PlayerID, req.Answers, req.TimeSpent)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"correct": correct,
		"player":  player,
	})
}

// Kick handles DELETE /api/sessions/{code}/players/{playerID}.
func (h *Handler) Kick(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.Kick(r.Context(), vars["code"], vars["playerID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type RenameRequest struct {
	Name string `json:"name"`
}

// Rename handles PUT /api/sessions/{code}/players/{playerID}.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.service.RenamePlayer(r.Context(), vars["code"], vars["playerID"], req.Name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Leaderboard handles GET /api/sessions/{code}/leaderboard.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	entries, err := h.service.GetLeaderboard(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(entries)
}

// Export handles GET /api/sessions/{code}/export: leaderboard analytics as
// a CSV download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-results.csv", code))

	if err := h.service.ExportCSV(r.Context(), code, w); err != nil {
		log.Printf("Error exporting session %s: %v", code, err)
	}
}
