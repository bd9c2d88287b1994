package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminhub/identity-service/internal/core/domain"
)

// RequireRole gates the route to identities holding one of the allowed roles.
// A missing identity means the authenticator did not run or failed open —
// treated as unauthenticated, never as a pass-through. The observed role on a
// mismatch goes to the log only; the response body stays generic.
func RequireRole(log zerolog.Logger, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			if _, ok := allowed[identity.Role]; !ok {
				log.Warn().
					Str("user_id", identity.UserID).
					Str("role", identity.Role).
					Str("path", c.Path()).
					Msg("role not allowed for route")
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
