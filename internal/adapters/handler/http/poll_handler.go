package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
	log     *zap.Logger
}

func NewPollHandler(service ports.PollService, log *zap.Logger) *PollHandler {
	return &PollHandler{
		service: service,
		log:     log,
	}
}

type createPollRequest struct {
	Question  string     `json:"question" validate:"required,max=200"`
	Options   []string   `json:"options" validate:"required,min=2,max=6,dive,required,max=100"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type updatePollRequest struct {
	Question *string  `json:"question" validate:"omitempty,max=200"`
	Options  []string `json:"options" validate:"omitempty,min=2,max=6,dive,required,max=100"`
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPolls(r.Context())
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	respond(w, http.StatusOK, polls)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respond(w, http.StatusOK, poll)
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "question and 2-6 options are required")
		return
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		Question:  req.Question,
		Options:   req.Options,
		CreatedBy: userID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respond(w, http.StatusCreated, poll)
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid poll id")
		return
	}

	var req updatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid poll update")
		return
	}

	poll, err := h.service.Update(r.Context(), ports.UpdatePollInput{
		PollID:      pollID,
		RequestedBy: userID,
		Question:    req.Question,
		Options:     req.Options,
	})
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respond(w, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid poll id")
		return
	}

	if err := h.service.Delete(r.Context(), pollID, userID); err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respondMessage(w, http.StatusOK, "poll deleted successfully")
}
