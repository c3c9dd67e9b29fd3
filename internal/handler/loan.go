package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/pkg/auth"
)

// Borrow godoc
// @Summary borrow one unit of a book
// @Tags loans
// @Accept json
// @Produce json
// @Param request body model.BorrowRequest true "book id"
// @Success 201 {object} model.Response
// @Security BearerAuth
// @Router /borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	caller, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please log in")
	}

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	details, err := h.svc.Borrow(c.Request().Context(), caller.UserID, req.BookID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, "book borrowed", details)
}

// Return godoc
// @Summary return a borrowed book
// @Tags loans
// @Accept json
// @Produce json
// @Param request body model.ReturnRequest true "transaction id"
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /return [post]
func (h *Handler) Return(c echo.Context) error {
	caller, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please log in")
	}

	var req model.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	details, err := h.svc.Return(c.Request().Context(), caller, req.TransactionID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "book returned", details)
}

// MyBorrowed godoc
// @Summary caller's active borrows
// @Tags loans
// @Produce json
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /my-borrowed [get]
func (h *Handler) MyBorrowed(c echo.Context) error {
	caller, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please log in")
	}

	items, err := h.svc.MyBorrowed(c.Request().Context(), caller.UserID)
	if err != nil {
		return httpError(err)
	}
	return respondCount(c, len(items), items)
}

// History godoc
// @Summary borrow history of a user (self, or any for admins)
// @Tags loans
// @Produce json
// @Param user_id path string true "user id"
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /history/{user_id} [get]
func (h *Handler) History(c echo.Context) error {
	caller, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "please log in")
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return httpError(errs.ErrUserNotFound)
	}

	items, err := h.svc.History(c.Request().Context(), caller, userID.String())
	if err != nil {
		return httpError(err)
	}
	return respondCount(c, len(items), items)
}
