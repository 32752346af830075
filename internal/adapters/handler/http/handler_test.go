package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/adapters/repository/memory"
	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	pollRepo := memory.NewPollRepository()
	voteRepo := memory.NewVoteRepository()
	notifRepo := memory.NewNotificationRepository()
	userRepo := memory.NewUserRepository()
	locks := services.NewPollLocker()
	log := zap.NewNop()

	authService := services.NewAuthService(userRepo, "test-secret")
	handler := NewHandler(Handlers{
		Auth:          NewAuthHandler(authService, log),
		Polls:         NewPollHandler(services.NewPollService(pollRepo, voteRepo, locks, log), log),
		Votes:         NewVoteHandler(services.NewVoteService(pollRepo, voteRepo, notifRepo, locks, log), log),
		Users:         NewUserHandler(services.NewUserService(userRepo, pollRepo, voteRepo, log), log),
		Notifications: NewNotificationHandler(services.NewNotificationService(notifRepo), log),
		AuthService:   authService,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func signUpUser(t *testing.T, server *httptest.Server) string {
	t.Helper()

	email := fmt.Sprintf("user-%s@example.com", uuid.New())
	resp, env := doRequest(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func createTestPoll(t *testing.T, server *httptest.Server, token string) domain.Poll {
	t.Helper()

	resp, env := doRequest(t, server, http.MethodPost, "/api/polls", token, map[string]any{
		"question": "Pick one",
		"options":  []string{"A", "B"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll domain.Poll
	require.NoError(t, json.Unmarshal(env.Data, &poll))
	return poll
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)

	resp, env := doRequest(t, server, http.MethodPost, "/api/polls", "", map[string]any{
		"question": "Q", "options": []string{"A", "B"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/polls", "garbage-token", map[string]any{
		"question": "Q", "options": []string{"A", "B"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Reads stay public.
	resp, _ = doRequest(t, server, http.MethodGet, "/api/polls", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreatePollValidation(t *testing.T) {
	server := newTestServer(t)
	token := signUpUser(t, server)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/polls", token, map[string]any{
		"question": "Q", "options": []string{"only one"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/polls", token, map[string]any{
		"options": []string{"A", "B"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPollNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, env := doRequest(t, server, http.MethodGet, "/api/polls/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestVoteEndpoint(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	voter := signUpUser(t, server)

	poll := createTestPoll(t, server, creator)

	// Invalid option → 400.
	resp, _ := doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing poll → 404.
	resp, _ = doRequest(t, server, http.MethodPost, "/api/polls/"+uuid.NewString()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Valid vote returns the updated aggregate.
	resp, env := doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated domain.Poll
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, 1, updated.TotalVotes)
	assert.Equal(t, 1, updated.Options[0].Votes)

	// Vote change: decrement old, increment new, total unchanged.
	resp, env = doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[1].ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, 0, updated.Options[0].Votes)
	assert.Equal(t, 1, updated.Options[1].Votes)
	assert.Equal(t, 1, updated.TotalVotes)
}

func TestVoteOutsideWindowReturns403(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	voter := signUpUser(t, server)

	start := time.Now().Add(time.Hour)
	resp, env := doRequest(t, server, http.MethodPost, "/api/polls", creator, map[string]any{
		"question":  "Scheduled",
		"options":   []string{"A", "B"},
		"startDate": start.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll domain.Poll
	require.NoError(t, json.Unmarshal(env.Data, &poll))

	resp, _ = doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMyVoteEndpoint(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	voter := signUpUser(t, server)

	poll := createTestPoll(t, server, creator)

	resp, _ := doRequest(t, server, http.MethodGet, "/api/polls/"+poll.ID.String()+"/my-vote", voter, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doRequest(t, server, http.MethodGet, "/api/polls/"+poll.ID.String()+"/my-vote", voter, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var vote domain.Vote
	require.NoError(t, json.Unmarshal(env.Data, &vote))
	assert.Equal(t, poll.Options[0].ID, vote.OptionID)
}

func TestOwnershipEnforcement(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	intruder := signUpUser(t, server)

	poll := createTestPoll(t, server, creator)

	resp, _ := doRequest(t, server, http.MethodPut, "/api/polls/"+poll.ID.String(), intruder, map[string]any{
		"question": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodDelete, "/api/polls/"+poll.ID.String(), intruder, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodDelete, "/api/polls/"+poll.ID.String(), creator, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodGet, "/api/polls/"+poll.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotificationFlow(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	voter := signUpUser(t, server)

	poll := createTestPoll(t, server, creator)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doRequest(t, server, http.MethodGet, "/api/notifications", creator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var notifications []domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationTypeVote, notifications[0].Type)
	assert.False(t, notifications[0].Read)

	// The voter sees nothing; the notification is scoped to the creator.
	resp, env = doRequest(t, server, http.MethodGet, "/api/notifications", voter, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []domain.Notification
	require.NoError(t, json.Unmarshal(env.Data, &empty))
	assert.Empty(t, empty)

	resp, _ = doRequest(t, server, http.MethodPatch, "/api/notifications/"+notifications[0].ID.String()+"/read", creator, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/notifications/read-all", creator, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doRequest(t, server, http.MethodGet, "/api/notifications", creator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Read)
}

func TestProfileEndpoints(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	voter := signUpUser(t, server)

	poll := createTestPoll(t, server, creator)
	resp, _ := doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Profile carries activity counters.
	resp, env := doRequest(t, server, http.MethodGet, "/api/users/profile", creator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		Name         string `json:"name"`
		PollsCreated int    `json:"pollsCreated"`
		VotesCast    int    `json:"votesCast"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 1, profile.PollsCreated)
	assert.Equal(t, 0, profile.VotesCast)

	resp, env = doRequest(t, server, http.MethodGet, "/api/users/profile", voter, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 0, profile.PollsCreated)
	assert.Equal(t, 1, profile.VotesCast)

	// Update name.
	resp, env = doRequest(t, server, http.MethodPut, "/api/users/profile", creator, map[string]string{
		"name": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user domain.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Renamed", user.Name)

	// Unauthenticated access is rejected.
	resp, _ = doRequest(t, server, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doRequest(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Eve", "email": "eve@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	resp, _ = doRequest(t, server, http.MethodPut, "/api/users/profile", out.Token, map[string]string{
		"email": "ada@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPut, "/api/users/profile", out.Token, map[string]string{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserPollsAndVotes(t *testing.T) {
	server := newTestServer(t)
	creator := signUpUser(t, server)
	voter := signUpUser(t, server)

	poll := createTestPoll(t, server, creator)
	other := createTestPoll(t, server, creator)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/polls/"+poll.ID.String()+"/vote", voter, map[string]string{
		"optionId": poll.Options[0].ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doRequest(t, server, http.MethodGet, "/api/users/polls", creator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created []domain.Poll
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Len(t, created, 2)

	// The voter created nothing but voted once.
	resp, env = doRequest(t, server, http.MethodGet, "/api/users/polls", voter, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Empty(t, created)

	resp, env = doRequest(t, server, http.MethodGet, "/api/users/votes", voter, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var voted []domain.Poll
	require.NoError(t, json.Unmarshal(env.Data, &voted))
	require.Len(t, voted, 1)
	assert.Equal(t, poll.ID, voted[0].ID)
	assert.NotEqual(t, other.ID, voted[0].ID)
}

func TestSignInFlow(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := doRequest(t, server, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	resp, env = doRequest(t, server, http.MethodGet, "/api/auth/me", out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me domain.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ada@example.com", me.Email)
}
