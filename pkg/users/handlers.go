package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/auth"
	"github.com/matsjla/libris/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	userService *Service
	authService *auth.Service
}

type sessionResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Token    string `json:"token"`
}

// register creates a new user. The first user registered becomes an admin so
// that a fresh install can be bootstrapped without seeding the database.
func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	count, err := h.userService.CountUsers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	user := &models.User{
		Username:     params.Username,
		PasswordHash: hash,
		IsAdmin:      count == 0,
	}
	if err := h.userService.CreateUser(ctx, user); err != nil {
		return errors.WithStack(err)
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, sessionResponse{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		Token:    token,
	}))
}

// login authenticates a user and returns a fresh token.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, sessionResponse{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		Token:    token,
	}))
}
