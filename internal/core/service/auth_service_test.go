package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/identity-service/internal/core/domain"
	"github.com/adminhub/identity-service/internal/core/secret"
	"github.com/adminhub/identity-service/internal/core/token"
)

type stubDirectory struct {
	users  map[string]*domain.User
	nextID int
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (d *stubDirectory) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := d.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *stubDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := d.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	d.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", d.nextID)
	created.CreatedAt = time.Now().UTC()
	d.users[created.Username] = cloneUser(created)
	return created, nil
}

func (d *stubDirectory) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func newTestService(dir *stubDirectory) *AuthService {
	hasher := secret.NewHasher(bcrypt.MinCost)
	codec := token.NewCodec("test-secret", time.Hour)
	return NewAuthService(dir, hasher, codec)
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestService(newStubDirectory())

	result, err := svc.Register(context.Background(), "alice", "s3cr3t", domain.RoleStandard)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.ID == "" {
		t.Fatalf("expected generated id")
	}
	if result.User.SecretHash == "s3cr3t" {
		t.Fatalf("expected secret to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.SecretHash), []byte("s3cr3t")); err != nil {
		t.Fatalf("stored hash does not match secret: %v", err)
	}

	claims, err := token.NewCodec("test-secret", time.Hour).Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.SubjectID != result.User.ID || claims.Role != domain.RoleStandard {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestService(newStubDirectory())

	cases := []struct{ username, secret, role string }{
		{"", "pass", domain.RoleStandard},
		{"bob", "", domain.RoleStandard},
		{"bob", "pass", "superuser"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.secret, tc.role); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("Register(%q,%q,%q): expected ErrInvalidCredentials, got %v", tc.username, tc.secret, tc.role, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestService(newStubDirectory())

	if _, err := svc.Register(context.Background(), "bob", "pass", domain.RoleStandard); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "other", domain.RoleAdmin); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc := newTestService(newStubDirectory())

	if _, err := svc.Register(context.Background(), "carol", "hunter2", domain.RoleAdmin); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.User.Username != "carol" || result.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", result.User)
	}
}

func TestAuthService_Login_WrongSecret(t *testing.T) {
	svc := newTestService(newStubDirectory())

	_, _ = svc.Register(context.Background(), "dave", "goodpass", domain.RoleStandard)
	if _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserSameError(t *testing.T) {
	svc := newTestService(newStubDirectory())

	_, _ = svc.Register(context.Background(), "erin", "goodpass", domain.RoleStandard)

	_, wrongSecret := svc.Login(context.Background(), "erin", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "whatever")

	if !errors.Is(wrongSecret, domain.ErrInvalidCredentials) || !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on both paths, got %v and %v", wrongSecret, unknownUser)
	}
}

func TestAuthService_Login_DirectoryFailurePassesThrough(t *testing.T) {
	dir := newStubDirectory()
	svc := newTestService(dir)

	failing := &failingDirectory{stubDirectory: dir}
	svc.directory = failing

	if _, err := svc.Login(context.Background(), "anyone", "pass"); !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Fatalf("expected ErrDirectoryUnavailable, got %v", err)
	}
}

type failingDirectory struct {
	*stubDirectory
}

func (d *failingDirectory) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, fmt.Errorf("find user: %w", domain.ErrDirectoryUnavailable)
}

func TestAuthResult_NeverSerializesHash(t *testing.T) {
	svc := newTestService(newStubDirectory())

	result, err := svc.Register(context.Background(), "frank", "topsecret", domain.RoleStandard)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(raw), result.User.SecretHash) || strings.Contains(string(raw), "topsecret") {
		t.Fatalf("serialized result leaks the secret: %s", raw)
	}
}
