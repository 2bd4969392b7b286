package books

import (
	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/auth"
	"github.com/matsjla/libris/pkg/reviews"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	reviewService := reviews.NewService(db)
	bookService := NewService(db, reviewService)

	h := &handler{
		bookService: bookService,
	}

	g.GET("", h.list)
	g.GET("/recent", h.recent)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.AdminOnly)
}
