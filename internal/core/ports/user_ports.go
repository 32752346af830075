package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vunes/poll/internal/core/domain"
)

type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// Profile is a user plus their activity counters.
type Profile struct {
	User         *domain.User
	PollsCreated int
	VotesCast    int
}

type UpdateProfileInput struct {
	UserID uuid.UUID
	Name   *string
	Email  *string
}

type UserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	CreatedPolls(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error)
	VotedPolls(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error)
}
