package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/identity-service/internal/api/middleware"
	"github.com/adminhub/identity-service/internal/core/domain"
	"github.com/adminhub/identity-service/internal/core/ports"
)

type UserHandler struct {
	directory ports.UserDirectory
}

func NewUserHandler(directory ports.UserDirectory) *UserHandler {
	return &UserHandler{directory: directory}
}

// Me returns the authenticated caller's account summary.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	user, err := h.directory.FindByID(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers returns all registered accounts. Admin only.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.directory.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
