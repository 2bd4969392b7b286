package reviews

import (
	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the review listing route on a
// pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		reviewService: NewService(db),
	}

	g.GET("", h.list)
}

// RegisterBookRoutes registers the per-book review routes on the books group.
func RegisterBookRoutes(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		reviewService: NewService(db),
	}

	g.POST("/:id/review", h.create, authMiddleware.Authenticate)
	g.DELETE("/:id/review", h.remove, authMiddleware.Authenticate)
}
