package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminhub/identity-service/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired token"},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{domain.ErrUnknownSubject, http.StatusUnauthorized, "invalid or expired token"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrDirectoryUnavailable, http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handle(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%v: invalid json: %v", tc.err, err)
		}
		if resp["error"] != tc.msg {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.msg, resp["error"])
		}
	}
}

func TestHTTPErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handle(fmt.Errorf("insert user: %w", domain.ErrUserExists), c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped ErrUserExists, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	e := echo.New()
	var buf strings.Builder
	handle := NewHTTPErrorHandler(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handle(errors.New("mongo topology exploded"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "topology") {
		t.Fatalf("internal details leaked to the client: %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "topology") {
		t.Fatalf("real cause missing from the log: %s", buf.String())
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handle(echo.NewHTTPError(http.StatusBadRequest, "username is required"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "username is required") {
		t.Fatalf("expected validation message, got %s", rec.Body.String())
	}
}
