package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vunes/poll/client"
)

func TestVoteUpsertKeepsOneRowPerUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ctx := context.Background()
	owner := newAPIClient(t, app)
	voter := newAPIClient(t, app)

	poll, err := owner.CreatePoll(ctx, client.CreatePollInput{
		Question: "Upsert test",
		Options:  []string{"A", "B"},
	})
	require.NoError(t, err)

	// First vote, then a change of vote, then a repeat. The UNIQUE
	// (poll_id, user_id) constraint means a single row throughout.
	_, err = voter.Vote(ctx, poll.ID, poll.Options[0].ID)
	require.NoError(t, err)
	_, err = voter.Vote(ctx, poll.ID, poll.Options[1].ID)
	require.NoError(t, err)
	after, err := voter.Vote(ctx, poll.ID, poll.Options[1].ID)
	require.NoError(t, err)

	assert.Equal(t, 1, after.TotalVotes)
	assert.Equal(t, 0, after.Options[0].Votes)
	assert.Equal(t, 1, after.Options[1].Votes)

	var rows int
	err = app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", poll.ID).Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestVoteRejectedOutsideWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ctx := context.Background()
	owner := newAPIClient(t, app)
	voter := newAPIClient(t, app)

	past := time.Now().Add(-2 * time.Hour)
	justPast := time.Now().Add(-time.Hour)
	ended, err := owner.CreatePoll(ctx, client.CreatePollInput{
		Question:  "Already over",
		Options:   []string{"A", "B"},
		StartDate: &past,
		EndDate:   &justPast,
	})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	pending, err := owner.CreatePoll(ctx, client.CreatePollInput{
		Question:  "Not yet open",
		Options:   []string{"A", "B"},
		StartDate: &future,
	})
	require.NoError(t, err)

	var apiErr *client.APIError
	_, err = voter.Vote(ctx, ended.ID, ended.Options[0].ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	_, err = voter.Vote(ctx, pending.ID, pending.Options[0].ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	// No ledger rows were written for either attempt.
	var rows int
	err = app.DB.QueryRow("SELECT COUNT(*) FROM votes").Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

func TestVoteNotifiesPollCreator(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ctx := context.Background()
	owner := newAPIClient(t, app)
	voter := newAPIClient(t, app)

	poll, err := owner.CreatePoll(ctx, client.CreatePollInput{
		Question: "Notification test",
		Options:  []string{"A", "B"},
	})
	require.NoError(t, err)

	_, err = voter.Vote(ctx, poll.ID, poll.Options[0].ID)
	require.NoError(t, err)

	list, err := owner.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)
	assert.Equal(t, poll.ID, list[0].Data.PollID)

	require.NoError(t, owner.MarkNotificationRead(ctx, list[0].ID))
	list, err = owner.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	// The voter received nothing.
	mine, err := voter.Notifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
