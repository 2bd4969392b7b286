package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		genreService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.AdminOnly)
}
