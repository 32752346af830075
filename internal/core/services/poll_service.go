package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type pollService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	locks    *PollLocker
	log      *zap.Logger
}

func NewPollService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, locks *PollLocker, log *zap.Logger) ports.PollService {
	return &pollService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		locks:    locks,
		log:      log,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	question, err := validQuestion(input.Question)
	if err != nil {
		return nil, err
	}

	optionTexts, err := validOptions(input.Options)
	if err != nil {
		return nil, err
	}

	if input.StartDate != nil && input.EndDate != nil && !input.StartDate.Before(*input.EndDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidInput)
	}

	now := time.Now()
	poll := &domain.Poll{
		ID:        uuid.New(),
		Question:  question,
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	for _, text := range optionTexts {
		poll.Options = append(poll.Options, domain.Option{
			ID:   uuid.New(),
			Text: text,
		})
	}

	if err := s.pollRepo.Insert(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to insert poll: %w", err)
	}

	s.log.Info("poll created",
		zap.String("poll_id", poll.ID.String()),
		zap.String("created_by", poll.CreatedBy.String()),
		zap.Int("options", len(poll.Options)))

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.pollRepo.GetByID(ctx, pollID)
}

func (s *pollService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	return s.pollRepo.GetAll(ctx)
}

func (s *pollService) Update(ctx context.Context, input ports.UpdatePollInput) (*domain.Poll, error) {
	unlock := s.locks.Lock(input.PollID)
	defer unlock()

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}
	if poll.CreatedBy != input.RequestedBy {
		return nil, domain.ErrForbidden
	}

	if input.Question != nil {
		question, err := validQuestion(*input.Question)
		if err != nil {
			return nil, err
		}
		poll.Question = question
	}

	if len(input.Options) > 0 {
		optionTexts, err := validOptions(input.Options)
		if err != nil {
			return nil, err
		}

		// Replacing options invalidates prior vote semantics: every tally
		// resets and the poll's ledger entries are removed so none can
		// reference a dropped option id.
		poll.Options = poll.Options[:0]
		for _, text := range optionTexts {
			poll.Options = append(poll.Options, domain.Option{
				ID:   uuid.New(),
				Text: text,
			})
		}
		poll.TotalVotes = 0

		if err := s.voteRepo.DeleteByPoll(ctx, poll.ID); err != nil {
			return nil, fmt.Errorf("failed to clear votes on option replacement: %w", err)
		}
	}

	if err := s.pollRepo.Update(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to update poll: %w", err)
	}

	s.log.Info("poll updated", zap.String("poll_id", poll.ID.String()))
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, pollID, requestedBy uuid.UUID) error {
	unlock := s.locks.Lock(pollID)
	defer unlock()

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.CreatedBy != requestedBy {
		return domain.ErrForbidden
	}

	if err := s.pollRepo.Delete(ctx, pollID); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if err := s.voteRepo.DeleteByPoll(ctx, pollID); err != nil {
		return fmt.Errorf("failed to cascade vote cleanup: %w", err)
	}

	s.locks.Forget(pollID)
	s.log.Info("poll deleted", zap.String("poll_id", pollID.String()))
	return nil
}

func validQuestion(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if len(question) > domain.MaxQuestionLength {
		return "", fmt.Errorf("%w: question exceeds %d characters", domain.ErrInvalidInput, domain.MaxQuestionLength)
	}
	return question, nil
}

func validOptions(options []string) ([]string, error) {
	texts := make([]string, 0, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if len(opt) > domain.MaxOptionLength {
			return nil, fmt.Errorf("%w: option exceeds %d characters", domain.ErrInvalidInput, domain.MaxOptionLength)
		}
		texts = append(texts, opt)
	}

	if len(texts) < domain.MinOptions || len(texts) > domain.MaxOptions {
		return nil, fmt.Errorf("%w: between %d and %d options are required", domain.ErrInvalidInput, domain.MinOptions, domain.MaxOptions)
	}
	return texts, nil
}
