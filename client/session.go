package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
)

// ErrVoteInFlight rejects a second submission while one is outstanding.
// Concurrent in-flight mutations from the same session are not supported.
var ErrVoteInFlight = errors.New("a vote submission is already in flight")

// ErrUnknownOption rejects an optimistic vote for an option the cached poll
// does not carry; the local view is stale and needs a refresh first.
var ErrUnknownOption = errors.New("option not present in the cached poll")

// State tracks a vote submission through its lifecycle.
type State int

const (
	// StateIdle: no submission has run, or the last one finished long ago.
	StateIdle State = iota
	// StateOptimistic: the local view is mutated, the request is in flight.
	StateOptimistic
	// StateReconciled: the server copy replaced the optimistic guess.
	StateReconciled
	// StateRolledBack: the server rejected; the pre-submit view is restored.
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOptimistic:
		return "optimistic"
	case StateReconciled:
		return "reconciled"
	case StateRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

// Session holds one poll's client-side view. The cached poll is never
// authoritative: SubmitVote mutates it optimistically and either replaces it
// wholesale with the server's answer or restores the exact prior snapshot.
type Session struct {
	api *Client
	log *zap.Logger

	mu       sync.Mutex
	pollID   uuid.UUID
	poll     *domain.Poll
	myOption *uuid.UUID
	state    State
	inFlight bool
	lastErr  error
}

func NewSession(api *Client, poll *domain.Poll) *Session {
	return &Session{
		api:    api,
		log:    api.log,
		pollID: poll.ID,
		poll:   poll.Clone(),
		state:  StateIdle,
	}
}

// LoadVote seeds the session with the user's existing vote, so a change of
// vote is classified correctly on the first submission.
func (s *Session) LoadVote(ctx context.Context) error {
	vote, err := s.api.MyVote(ctx, s.pollID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if vote != nil {
		optionID := vote.OptionID
		s.myOption = &optionID
	} else {
		s.myOption = nil
	}
	return nil
}

// Poll returns a copy of the current local view.
func (s *Session) Poll() *domain.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poll.Clone()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure behind the last rollback, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// VotedOption returns the option the user currently holds locally, if any.
func (s *Session) VotedOption() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.myOption == nil {
		return uuid.Nil, false
	}
	return *s.myOption, true
}

// SubmitVote applies the vote locally, submits it, and reconciles. The
// in-flight guard is set under the lock before the request starts, which
// closes the double-tap race.
func (s *Session) SubmitVote(ctx context.Context, optionID uuid.UUID) (*domain.Poll, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrVoteInFlight
	}
	if s.poll.OptionIndex(optionID) < 0 {
		s.mu.Unlock()
		return nil, ErrUnknownOption
	}

	snapshot := s.poll.Clone()
	prevOption := s.myOption

	s.applyOptimistic(optionID)
	s.state = StateOptimistic
	s.inFlight = true
	s.mu.Unlock()

	authoritative, err := s.api.Vote(ctx, s.pollID, optionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		// Undo the exact optimistic mutation: the restored view is
		// bit-for-bit the pre-submit snapshot.
		s.poll = snapshot
		s.myOption = prevOption
		s.state = StateRolledBack
		s.lastErr = err
		s.log.Warn("vote rolled back",
			zap.String("poll_id", s.pollID.String()),
			zap.Error(err))
		return nil, err
	}

	s.poll = authoritative.Clone()
	s.state = StateReconciled
	s.lastErr = nil
	return authoritative, nil
}

// applyOptimistic mirrors the server's created/changed/unchanged tally rules
// on the local copy. Caller holds the lock.
func (s *Session) applyOptimistic(optionID uuid.UUID) {
	switch {
	case s.myOption == nil:
		s.poll.Options[s.poll.OptionIndex(optionID)].Votes++
		s.poll.TotalVotes++
	case *s.myOption == optionID:
		// Same choice again: tallies stay put.
	default:
		if i := s.poll.OptionIndex(*s.myOption); i >= 0 {
			s.poll.Options[i].Votes--
		}
		s.poll.Options[s.poll.OptionIndex(optionID)].Votes++
	}
	chosen := optionID
	s.myOption = &chosen
}

// Refresh replaces the local view with authoritative state, retrying
// transient failures. Called on screen focus. While a submission is in
// flight the replace is skipped so the optimistic view is not clobbered.
func (s *Session) Refresh(ctx context.Context) (*domain.Poll, error) {
	s.mu.Lock()
	if s.inFlight {
		poll := s.poll.Clone()
		s.mu.Unlock()
		return poll, nil
	}
	s.mu.Unlock()

	poll, err := s.api.fetchPollRetry(ctx, s.pollID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inFlight {
		s.poll = poll.Clone()
	}
	return poll, nil
}

// Watch re-fetches at a fixed interval while results are on screen, until
// the context is cancelled. An interval of zero or less disables polling
// and returns immediately. Run it on its own goroutine.
func (s *Session) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.log.Warn("poll refresh failed",
					zap.String("poll_id", s.pollID.String()),
					zap.Error(err))
			}
		}
	}
}
