package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
)

// ListBooks godoc
// @Summary list the catalog
// @Tags books
// @Produce json
// @Success 200 {object} model.Response
// @Router /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.svc.ListBooks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respondCount(c, len(books), books)
}

// GetBook godoc
// @Summary fetch one book
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.Response
// @Router /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return httpError(err)
	}

	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "", book)
}

// CreateBook godoc
// @Summary add a book to the catalog
// @Tags books
// @Accept json
// @Produce json
// @Param request body model.BookRequest true "book"
// @Success 201 {object} model.Response
// @Security BearerAuth
// @Router /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.svc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, "book created", book)
}

// UpdateBook godoc
// @Summary update a catalog entry
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "book id"
// @Param request body model.BookRequest true "book"
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return httpError(err)
	}

	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.svc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "book updated", book)
}

// DeleteBook godoc
// @Summary remove a catalog entry
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.Response
// @Security BearerAuth
// @Router /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return httpError(err)
	}

	if err := h.svc.DeleteBook(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "book deleted", nil)
}

func bookID(c echo.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", errs.ErrBookNotFound
	}
	return id.String(), nil
}
