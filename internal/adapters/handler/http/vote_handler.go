package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
	log     *zap.Logger
}

func NewVoteHandler(service ports.VoteService, log *zap.Logger) *VoteHandler {
	return &VoteHandler{service: service, log: log}
}

type voteRequest struct {
	OptionID uuid.UUID `json:"optionId"`
}

// VoteOnPoll returns the full updated aggregate so the client can reconcile
// its optimistic state without a second read.
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid poll id")
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "option id is required")
		return
	}

	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	poll, err := h.service.Vote(r.Context(), ports.VoteInput{
		PollID:   pollID,
		UserID:   userID,
		OptionID: req.OptionID,
	})
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respond(w, http.StatusOK, poll)
}

// GetMyVote reports which option the caller currently holds on a poll, if any.
func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid poll id")
		return
	}

	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	vote, err := h.service.GetUserVote(r.Context(), pollID, userID)
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	if vote == nil {
		respondError(w, http.StatusNotFound, "no vote for this poll")
		return
	}
	respond(w, http.StatusOK, vote)
}
