// Package memory backs the repository ports with process memory. It mirrors
// the reference deployment: state is lost on restart. Every accessor hands
// out deep copies so callers can mutate aggregates freely before writing
// them back.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type pollRepository struct {
	mu    sync.RWMutex
	polls map[uuid.UUID]*domain.Poll
}

func NewPollRepository() ports.PollRepository {
	return &pollRepository{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *pollRepository) Insert(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls[poll.ID] = poll.Clone()
	return nil
}

func (r *pollRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return poll.Clone(), nil
}

func (r *pollRepository) GetAll(_ context.Context) ([]*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	polls := make([]*domain.Poll, 0, len(r.polls))
	for _, poll := range r.polls {
		polls = append(polls, poll.Clone())
	}
	sort.Slice(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (r *pollRepository) GetByCreator(_ context.Context, creatorID uuid.UUID) ([]*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	polls := make([]*domain.Poll, 0)
	for _, poll := range r.polls {
		if poll.CreatedBy == creatorID {
			polls = append(polls, poll.Clone())
		}
	}
	sort.Slice(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (r *pollRepository) Update(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[poll.ID]; !ok {
		return domain.ErrPollNotFound
	}
	r.polls[poll.ID] = poll.Clone()
	return nil
}

func (r *pollRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}
