package users

import (
	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers user routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authService *auth.Service) {
	h := &handler{
		userService: NewService(db),
		authService: authService,
	}

	g.POST("", h.register)
	g.POST("/login", h.login)
}
