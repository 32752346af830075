package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type voteService struct {
	pollRepo  ports.PollRepository
	voteRepo  ports.VoteRepository
	notifRepo ports.NotificationRepository
	locks     *PollLocker
	log       *zap.Logger
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, notifRepo ports.NotificationRepository, locks *PollLocker, log *zap.Logger) ports.VoteService {
	return &voteService{
		pollRepo:  pollRepo,
		voteRepo:  voteRepo,
		notifRepo: notifRepo,
		locks:     locks,
		log:       log,
	}
}

// Vote runs the transaction under the poll's lock: eligibility checks first,
// then ledger upsert and tally mutation as one step. Any precondition failure
// aborts before anything is written.
func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Poll, error) {
	unlock := s.locks.Lock(input.PollID)
	defer unlock()

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	if !poll.HasOption(input.OptionID) {
		return nil, domain.ErrInvalidOption
	}

	if poll.Status(time.Now()) != domain.StatusActive {
		return nil, domain.ErrPollNotActive
	}

	existing, err := s.voteRepo.GetByPollAndUser(ctx, input.PollID, input.UserID)
	if err != nil {
		return nil, err
	}

	transition := classify(existing, input.OptionID)
	if transition == domain.VoteUnchanged {
		// Re-submitting the same choice is a no-op: tallies stay put and
		// the caller still gets the authoritative aggregate back.
		return poll, nil
	}

	now := time.Now()
	vote := existing
	if transition == domain.VoteCreated {
		vote = &domain.Vote{
			ID:        uuid.New(),
			PollID:    input.PollID,
			UserID:    input.UserID,
			CreatedAt: now,
		}
	}
	prevOptionID := uuid.Nil
	if transition == domain.VoteChanged {
		prevOptionID = vote.OptionID
	}
	vote.OptionID = input.OptionID
	vote.UpdatedAt = now

	if err := s.voteRepo.Upsert(ctx, vote); err != nil {
		return nil, err
	}

	switch transition {
	case domain.VoteCreated:
		poll.Options[poll.OptionIndex(input.OptionID)].Votes++
		poll.TotalVotes++
	case domain.VoteChanged:
		if i := poll.OptionIndex(prevOptionID); i >= 0 {
			poll.Options[i].Votes--
		}
		poll.Options[poll.OptionIndex(input.OptionID)].Votes++
	}

	if err := s.pollRepo.Update(ctx, poll); err != nil {
		return nil, err
	}

	s.notifyCreator(ctx, poll, input.UserID)

	s.log.Info("vote recorded",
		zap.String("poll_id", poll.ID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("transition", string(transition)))

	return poll, nil
}

func (s *voteService) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	return s.voteRepo.GetByPollAndUser(ctx, pollID, userID)
}

func classify(existing *domain.Vote, optionID uuid.UUID) domain.VoteTransition {
	switch {
	case existing == nil:
		return domain.VoteCreated
	case existing.OptionID == optionID:
		return domain.VoteUnchanged
	default:
		return domain.VoteChanged
	}
}

// notifyCreator is best-effort: a failed insert is logged and must never roll
// back the vote that triggered it. Self-votes are silent.
func (s *voteService) notifyCreator(ctx context.Context, poll *domain.Poll, voterID uuid.UUID) {
	if poll.CreatedBy == voterID {
		return
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    poll.CreatedBy,
		Title:     "New Vote",
		Message:   "Someone voted on your poll: " + poll.Question,
		Type:      domain.NotificationTypeVote,
		CreatedAt: time.Now(),
		Data:      domain.NotificationData{PollID: poll.ID},
	}

	if err := s.notifRepo.Insert(ctx, n); err != nil {
		s.log.Warn("failed to enqueue vote notification",
			zap.String("poll_id", poll.ID.String()),
			zap.Error(err))
	}
}
