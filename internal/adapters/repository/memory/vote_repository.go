package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type voteKey struct {
	pollID uuid.UUID
	userID uuid.UUID
}

// voteRepository keys the ledger by (poll, user), so the one-entry-per-pair
// invariant holds by construction.
type voteRepository struct {
	mu    sync.RWMutex
	votes map[voteKey]*domain.Vote
}

func NewVoteRepository() ports.VoteRepository {
	return &voteRepository{votes: make(map[voteKey]*domain.Vote)}
}

func (r *voteRepository) GetByPollAndUser(_ context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vote, ok := r.votes[voteKey{pollID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *vote
	return &cp, nil
}

func (r *voteRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	votes := make([]*domain.Vote, 0)
	for key, vote := range r.votes {
		if key.userID == userID {
			cp := *vote
			votes = append(votes, &cp)
		}
	}
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].CreatedAt.After(votes[j].CreatedAt)
	})
	return votes, nil
}

func (r *voteRepository) Upsert(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *vote
	r.votes[voteKey{vote.PollID, vote.UserID}] = &cp
	return nil
}

func (r *voteRepository) DeleteByPoll(_ context.Context, pollID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.votes {
		if key.pollID == pollID {
			delete(r.votes, key)
		}
	}
	return nil
}
