package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adminhub/identity-service/internal/api/metrics"
	"github.com/adminhub/identity-service/internal/api/middleware"
	"github.com/adminhub/identity-service/internal/core/ports"
)

// CookieOptions controls the session cookie the login handler sets.
type CookieOptions struct {
	// Secure marks the cookie HTTPS-only; enabled in production.
	Secure bool
	// MaxAge mirrors the token TTL so cookie and token expire together.
	MaxAge time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"required,oneof=standard admin"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// Register creates a new user account and returns its first session token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(result.User.Role).Inc()
	return c.JSON(http.StatusCreated, result)
}

// Login authenticates a user, sets the session cookie and returns the token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	timer := prometheus.NewTimer(metrics.LoginDuration)
	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	timer.ObserveDuration()
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, result)
}
