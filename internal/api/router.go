package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/adminhub/identity-service/internal/api/handler"
	"github.com/adminhub/identity-service/internal/api/middleware"
	"github.com/adminhub/identity-service/internal/core/domain"
	"github.com/adminhub/identity-service/internal/core/ports"
	"github.com/adminhub/identity-service/internal/core/token"
)

// RouterConfig carries the dependencies the router wires into handlers and
// middleware. Everything is injected so tests can drive the full HTTP surface
// with in-memory implementations.
type RouterConfig struct {
	Directory      ports.UserDirectory
	AuthService    ports.AuthService
	Codec          *token.Codec
	AllowedOrigins []string
	SecureCookies  bool
	Readiness      []handler.DependencyChecker
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.AuthService, handler.CookieOptions{
		Secure: cfg.SecureCookies,
		MaxAge: cfg.Codec.TTL(),
	})
	userHandler := handler.NewUserHandler(cfg.Directory)
	authenticate := middleware.Authenticate(cfg.Codec, cfg.Directory, cfg.Log)

	// --- API routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", userHandler.Me, authenticate)

	admin := v1.Group("/admin", authenticate, middleware.RequireRole(cfg.Log, domain.RoleAdmin))
	admin.GET("/users", userHandler.ListUsers)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(cfg.Readiness...)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
