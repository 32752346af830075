// Package client talks to the poll API and keeps a per-poll local view in
// step with the server: vote submissions apply optimistically, reconcile
// against the authoritative response, and roll back exactly on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// ErrNetwork wraps transport-level failures, including timeouts. They are
// indistinguishable to the caller: the vote may or may not have landed, so
// the session rolls back and the user retries.
var ErrNetwork = errors.New("network error")

// APIError is a server-reported failure with its HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Token   string
	Logger  *zap.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.RWMutex
	token string
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
		token:   cfg.Token,
	}
}

// SetToken swaps the bearer credential, e.g. after sign-in.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrNetwork, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Polls(ctx context.Context) ([]*domain.Poll, error) {
	var out []*domain.Poll
	if err := c.do(ctx, http.MethodGet, "/api/polls", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Poll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	var out domain.Poll
	if err := c.do(ctx, http.MethodGet, "/api/polls/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type CreatePollInput struct {
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

func (c *Client) CreatePoll(ctx context.Context, input CreatePollInput) (*domain.Poll, error) {
	var out domain.Poll
	if err := c.do(ctx, http.MethodPost, "/api/polls", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdatePollInput struct {
	Question *string  `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
}

func (c *Client) UpdatePoll(ctx context.Context, id uuid.UUID, input UpdatePollInput) (*domain.Poll, error) {
	var out domain.Poll
	if err := c.do(ctx, http.MethodPut, "/api/polls/"+id.String(), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePoll(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/polls/"+id.String(), nil, nil)
}

func (c *Client) Vote(ctx context.Context, pollID, optionID uuid.UUID) (*domain.Poll, error) {
	var out domain.Poll
	err := c.do(ctx, http.MethodPost, "/api/polls/"+pollID.String()+"/vote", map[string]string{
		"optionId": optionID.String(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MyVote returns nil without error when the user has not voted on the poll.
func (c *Client) MyVote(ctx context.Context, pollID uuid.UUID) (*domain.Vote, error) {
	var out domain.Vote
	err := c.do(ctx, http.MethodGet, "/api/polls/"+pollID.String()+"/my-vote", nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// Profile is the caller's user record with activity counters.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	PollsCreated int       `json:"pollsCreated"`
	VotesCast    int       `json:"votesCast"`
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateProfileInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyPolls lists the polls the caller created, newest first.
func (c *Client) MyPolls(ctx context.Context) ([]*domain.Poll, error) {
	var out []*domain.Poll
	if err := c.do(ctx, http.MethodGet, "/api/users/polls", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VotedPolls lists the polls the caller has voted on.
func (c *Client) VotedPolls(ctx context.Context) ([]*domain.Poll, error) {
	var out []*domain.Poll
	if err := c.do(ctx, http.MethodGet, "/api/users/votes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Notifications(ctx context.Context) ([]*domain.Notification, error) {
	var out []*domain.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPatch, "/api/notifications/"+id.String()+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil)
}

// fetchPollRetry re-fetches a poll with exponential backoff, retrying only
// transport failures and 5xx responses. Covers the cold-start case where the
// server is still waking up.
func (c *Client) fetchPollRetry(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	var poll *domain.Poll

	operation := func() error {
		p, err := c.Poll(ctx, id)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		poll = p
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return poll, nil
}
