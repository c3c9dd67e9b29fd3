package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/pkg/auth"
)

// Register godoc
// @Summary create a member or admin account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "credentials"
// @Success 201 {object} model.Response
// @Router /register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	token, err := auth.NewToken(user.ID, []byte(h.jwt.SigningKey), h.jwt.TokenTTL)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusCreated, "registration successful", model.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

// Login godoc
// @Summary verify credentials and issue a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "credentials"
// @Success 200 {object} model.Response
// @Router /login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	token, err := auth.NewToken(user.ID, []byte(h.jwt.SigningKey), h.jwt.TokenTTL)
	if err != nil {
		return httpError(err)
	}

	return respond(c, http.StatusOK, "login successful", model.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}
