package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminhub/identity-service/internal/api/metrics"
	"github.com/adminhub/identity-service/internal/core/domain"
	"github.com/adminhub/identity-service/internal/core/ports"
	"github.com/adminhub/identity-service/internal/core/token"
)

// CookieName is the session cookie the login handler sets and the
// authenticator reads.
const CookieName = "authToken"

const identityContextKey = "auth.identity"

// IdentityFrom returns the identity attached by Authenticate, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(domain.Identity)
	return identity, ok
}

// Authenticate verifies the bearer token on the request and attaches the
// resulting identity to the echo context. The token is read from the
// CookieName cookie first, then from the Authorization header. Every failure
// short-circuits; the next handler only runs with a verified identity in
// place.
func Authenticate(codec *token.Codec, directory ports.UserDirectory, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := extractToken(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return err
			}

			// The subject must still exist; a deleted account invalidates
			// otherwise-intact tokens.
			if _, err := directory.FindByID(c.Request().Context(), claims.SubjectID); err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
					log.Debug().Str("subject_id", claims.SubjectID).Msg("token subject no longer exists")
					return domain.ErrUnknownSubject
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(identityContextKey, domain.Identity{
				UserID: claims.SubjectID,
				Role:   claims.Role,
			})
			return next(c)
		}
	}
}

// extractToken pulls the bearer token from the request. The cookie wins when
// both transports are present.
func extractToken(c echo.Context) (string, bool) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
