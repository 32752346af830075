package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vunes/poll/internal/core/domain"
)

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
	// VerifyToken validates a bearer token and returns the subject user id.
	VerifyToken(token string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
