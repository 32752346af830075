package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vunes/poll/internal/core/domain"
)

type PollRepository interface {
	Insert(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	GetByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Poll, error)
	Update(ctx context.Context, poll *domain.Poll) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePollInput struct {
	Question  string
	Options   []string
	CreatedBy uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type UpdatePollInput struct {
	PollID      uuid.UUID
	RequestedBy uuid.UUID
	Question    *string
	Options     []string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context) ([]*domain.Poll, error)
	Update(ctx context.Context, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, pollID, requestedBy uuid.UUID) error
}
