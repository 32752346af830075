package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/adapters/repository/memory"
	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type userStack struct {
	users ports.UserService
	polls ports.PollService
	votes ports.VoteService
	repo  ports.UserRepository
}

func newUserStack() *userStack {
	userRepo := memory.NewUserRepository()
	pollRepo := memory.NewPollRepository()
	voteRepo := memory.NewVoteRepository()
	notifRepo := memory.NewNotificationRepository()
	locks := NewPollLocker()
	log := zap.NewNop()

	return &userStack{
		users: NewUserService(userRepo, pollRepo, voteRepo, log),
		polls: NewPollService(pollRepo, voteRepo, locks, log),
		votes: NewVoteService(pollRepo, voteRepo, notifRepo, locks, log),
		repo:  userRepo,
	}
}

func (s *userStack) addUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.repo.Insert(context.Background(), user))
	return user
}

func TestProfileCounters(t *testing.T) {
	s := newUserStack()
	ctx := context.Background()

	creator := s.addUser(t, "Ada", "ada@example.com")
	voter := s.addUser(t, "Bob", "bob@example.com")

	pollA := createPollFor(t, s, creator.ID)
	pollB := createPollFor(t, s, creator.ID)
	_, err := s.votes.Vote(ctx, ports.VoteInput{PollID: pollA.ID, UserID: voter.ID, OptionID: pollA.Options[0].ID})
	require.NoError(t, err)
	_, err = s.votes.Vote(ctx, ports.VoteInput{PollID: pollB.ID, UserID: voter.ID, OptionID: pollB.Options[0].ID})
	require.NoError(t, err)

	profile, err := s.users.Profile(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.PollsCreated)
	assert.Equal(t, 0, profile.VotesCast)

	profile, err = s.users.Profile(ctx, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PollsCreated)
	assert.Equal(t, 2, profile.VotesCast)

	// Changing a vote does not inflate the counter.
	_, err = s.votes.Vote(ctx, ports.VoteInput{PollID: pollA.ID, UserID: voter.ID, OptionID: pollA.Options[1].ID})
	require.NoError(t, err)
	profile, err = s.users.Profile(ctx, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.VotesCast)

	_, err = s.users.Profile(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	s := newUserStack()
	ctx := context.Background()

	user := s.addUser(t, "Ada", "ada@example.com")
	s.addUser(t, "Eve", "eve@example.com")

	name := "Ada Lovelace"
	email := " Ada.L@Example.com "
	updated, err := s.users.UpdateProfile(ctx, ports.UpdateProfileInput{
		UserID: user.ID,
		Name:   &name,
		Email:  &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada.l@example.com", updated.Email)

	// The new email is now the one on record.
	fetched, err := s.repo.GetByEmail(ctx, "ada.l@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)

	taken := "eve@example.com"
	_, err = s.users.UpdateProfile(ctx, ports.UpdateProfileInput{UserID: user.ID, Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	blank := "  "
	_, err = s.users.UpdateProfile(ctx, ports.UpdateProfileInput{UserID: user.ID, Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Re-submitting the current email is not a conflict.
	same := "ada.l@example.com"
	_, err = s.users.UpdateProfile(ctx, ports.UpdateProfileInput{UserID: user.ID, Email: &same})
	require.NoError(t, err)
}

func TestVotedPolls(t *testing.T) {
	s := newUserStack()
	ctx := context.Background()

	creator := s.addUser(t, "Ada", "ada@example.com")
	voter := s.addUser(t, "Bob", "bob@example.com")

	voted := createPollFor(t, s, creator.ID)
	skipped := createPollFor(t, s, creator.ID)
	deleted := createPollFor(t, s, creator.ID)

	_, err := s.votes.Vote(ctx, ports.VoteInput{PollID: voted.ID, UserID: voter.ID, OptionID: voted.Options[0].ID})
	require.NoError(t, err)
	_, err = s.votes.Vote(ctx, ports.VoteInput{PollID: deleted.ID, UserID: voter.ID, OptionID: deleted.Options[0].ID})
	require.NoError(t, err)

	// Deleting a poll takes it out of the voter's history along with its
	// ledger entries.
	require.NoError(t, s.polls.Delete(ctx, deleted.ID, creator.ID))

	polls, err := s.users.VotedPolls(ctx, voter.ID)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, voted.ID, polls[0].ID)

	created, err := s.users.CreatedPolls(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, p := range created {
		assert.Contains(t, []uuid.UUID{voted.ID, skipped.ID}, p.ID)
	}
}

func createPollFor(t *testing.T, s *userStack, creator uuid.UUID) *domain.Poll {
	t.Helper()
	poll, err := s.polls.Create(context.Background(), ports.CreatePollInput{
		Question:  "Pick one",
		Options:   []string{"A", "B"},
		CreatedBy: creator,
	})
	require.NoError(t, err)
	return poll
}
