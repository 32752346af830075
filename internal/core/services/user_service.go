package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type userService struct {
	userRepo ports.UserRepository
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	log      *zap.Logger
}

func NewUserService(userRepo ports.UserRepository, pollRepo ports.PollRepository, voteRepo ports.VoteRepository, log *zap.Logger) ports.UserService {
	return &userService{
		userRepo: userRepo,
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		log:      log,
	}
}

func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*ports.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.pollRepo.GetByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count created polls: %w", err)
	}
	votes, err := s.voteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cast votes: %w", err)
	}

	return &ports.Profile{
		User:         user,
		PollsCreated: len(created),
		VotesCast:    len(votes),
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
		}
		user.Name = name
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", domain.ErrInvalidInput)
		}
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if existing != nil && existing.ID != user.ID {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.log.Info("profile updated", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userService) CreatedPolls(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error) {
	return s.pollRepo.GetByCreator(ctx, userID)
}

// VotedPolls resolves the user's ledger entries to their polls. Entries whose
// poll was deleted since the vote are skipped.
func (s *userService) VotedPolls(ctx context.Context, userID uuid.UUID) ([]*domain.Poll, error) {
	votes, err := s.voteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	polls := make([]*domain.Poll, 0, len(votes))
	for _, vote := range votes {
		poll, err := s.pollRepo.GetByID(ctx, vote.PollID)
		if err != nil {
			if errors.Is(err, domain.ErrPollNotFound) {
				continue
			}
			return nil, err
		}
		polls = append(polls, poll)
	}
	return polls, nil
}
