package domain

import "time"

const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	return role == RoleStandard || role == RoleAdmin
}

// User models a registered account. The secret hash never leaves the process:
// it is excluded from JSON and only ever compared through the secret package.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	SecretHash string    `json:"-"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is the request-scoped result of a successful token verification.
// It carries only what role gating needs; it is built by the authenticator
// middleware and discarded at the end of the request.
type Identity struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
