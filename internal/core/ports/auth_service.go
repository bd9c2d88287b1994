package ports

import (
	"context"

	"github.com/adminhub/identity-service/internal/core/domain"
)

// AuthResult pairs the created-or-authenticated user with a freshly issued
// session token. The user's secret hash is JSON-omitted, so the result is
// safe to serialize outward.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, username, secret, role string) (*AuthResult, error)
	Login(ctx context.Context, username, secret string) (*AuthResult, error)
}
