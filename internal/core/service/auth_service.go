package service

import (
	"context"
	"errors"

	"github.com/adminhub/identity-service/internal/core/domain"
	"github.com/adminhub/identity-service/internal/core/ports"
	"github.com/adminhub/identity-service/internal/core/secret"
	"github.com/adminhub/identity-service/internal/core/token"
)

// AuthService orchestrates registration and login against the user directory.
type AuthService struct {
	directory ports.UserDirectory
	hasher    *secret.Hasher
	codec     *token.Codec

	// dummyHash is compared against when login hits an unknown username, so
	// that the unknown-user and wrong-secret paths cost roughly the same.
	dummyHash string
}

func NewAuthService(directory ports.UserDirectory, hasher *secret.Hasher, codec *token.Codec) *AuthService {
	dummy, _ := hasher.Hash("equalize-login-timing")
	return &AuthService{
		directory: directory,
		hasher:    hasher,
		codec:     codec,
		dummyHash: dummy,
	}
}

// Register creates a new user and issues its first session token. Retrying a
// successful registration is not idempotent: the username is taken by then
// and the retry fails with ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, plain, role string) (*ports.AuthResult, error) {
	if username == "" || plain == "" || !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	// Pre-check for a friendlier failure; the directory's unique index is the
	// actual guarantee and still reports ErrUserExists on a racing insert.
	_, err := s.directory.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	created, err := s.directory.Create(ctx, &domain.User{
		Username:   username,
		SecretHash: hash,
		Role:       role,
	})
	if err != nil {
		return nil, err
	}

	signed, err := s.codec.Issue(created.ID, created.Role)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: created, Token: signed}, nil
}

// Login authenticates username/plain and issues a session token. An unknown
// username and a wrong secret produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, plain string) (*ports.AuthResult, error) {
	if username == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(plain, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(plain, user.SecretHash) {
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: signed}, nil
}
