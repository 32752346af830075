package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vunes/poll/internal/core/domain"
)

type VoteRepository interface {
	// GetByPollAndUser returns the ledger entry for the (poll, user) key, or
	// nil when the user has not voted.
	GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	// ListByUser returns the user's ledger entries across all polls,
	// newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Vote, error)
	Upsert(ctx context.Context, vote *domain.Vote) error
	DeleteByPoll(ctx context.Context, pollID uuid.UUID) error
}

type VoteInput struct {
	PollID   uuid.UUID
	UserID   uuid.UUID
	OptionID uuid.UUID
}

// VoteService runs the vote transaction: eligibility checks, ledger upsert
// and tally mutation as one atomic step, returning the updated aggregate.
type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (*domain.Poll, error)
	GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
}
