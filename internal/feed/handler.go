package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"falconsphere/internal/auth"
	"falconsphere/pkg/filter"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	return uint(id), err
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Question not found", http.StatusNotFound)
	case errors.Is(err, ErrNotAuthor):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, filter.ErrProfanity):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

type QuestionRequest struct {
	Text       string   `json:"text"`
	Tags       []string `json:"tags"`
	Difficulty string   `json:"difficulty"`
}

// List handles GET /api/questions with search/tag/difficulty filters and
// 1-based pagination.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	result, err := h.service.List(ListFilter{
		Search:     q.Get("q"),
		Tag:        q.Get("tag"),
		Difficulty: q.Get("difficulty"),
	}, page)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}
	question, err := h.service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(question)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	question, err := h.service.Create(userID, req.Text, req.Tags, req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(question)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	question, err := h.service.Update(userID, id, req.Text, req.Tags, req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(question)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type VoteRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Direction != "up" && req.Direction != "down" {
		http.Error(w, "Direction must be \"up\" or \"down\"", http.StatusBadRequest)
		return
	}

	question, err := h.service.Vote(id, req.Direction == "up")
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(question)
}

type ReplyRequest struct {
	Text     string `json:"text"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	reply, err := h.service.Reply(userID, id, req.ParentID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reply)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	replyID, err := pathID(r, "replyID")
	if err != nil {
		http.Error(w, "Invalid reply id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteReply(userID, replyID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ReactionRequest struct {
	Emoji   string `json:"emoji"`
	ReplyID uint   `json:"reply_id,omitempty"`
}

func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	question, err := h.service.React(id, req.ReplyID, req.Emoji)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(question)
}
