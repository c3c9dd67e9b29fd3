package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chanotai/library-lending/internal/errs"
)

// AllTransactions godoc
// @Summary all borrow records
// @Tags admin
// @Produce json
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /admin/borrowed-books [get]
func (h *Handler) AllTransactions(c echo.Context) error {
	items, err := h.svc.AllTransactions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respondCount(c, len(items), items)
}

// ListUsers godoc
// @Summary list members
// @Tags admin
// @Produce json
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListMembers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respondCount(c, len(users), users)
}

// DeleteUser godoc
// @Summary delete a member
// @Tags admin
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpError(errs.ErrUserNotFound)
	}

	if err := h.svc.DeleteUser(c.Request().Context(), id.String()); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "member deleted", nil)
}

// Stats godoc
// @Summary dashboard counters
// @Tags admin
// @Produce json
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "", stats)
}
