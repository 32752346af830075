package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	log     *zap.Logger
}

func NewUserHandler(service ports.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type profileResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	PollsCreated int       `json:"pollsCreated"`
	VotesCast    int       `json:"votesCast"`
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respond(w, http.StatusOK, profileResponse{
		ID:           profile.User.ID,
		Name:         profile.User.Name,
		Email:        profile.User.Email,
		CreatedAt:    profile.User.CreatedAt,
		PollsCreated: profile.PollsCreated,
		VotesCast:    profile.VotesCast,
	})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid profile update")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), ports.UpdateProfileInput{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respond(w, http.StatusOK, user)
}

func (h *UserHandler) MyPolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	polls, err := h.service.CreatedPolls(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	respond(w, http.StatusOK, polls)
}

func (h *UserHandler) MyVotedPolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	polls, err := h.service.VotedPolls(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	respond(w, http.StatusOK, polls)
}
