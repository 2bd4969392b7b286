package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/matsjla/libris/pkg/auth"
	"github.com/matsjla/libris/pkg/authors"
	"github.com/matsjla/libris/pkg/binder"
	"github.com/matsjla/libris/pkg/books"
	"github.com/matsjla/libris/pkg/config"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/matsjla/libris/pkg/genres"
	"github.com/matsjla/libris/pkg/reviews"
	"github.com/matsjla/libris/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
	}))

	health.RegisterRoutes(e)

	authService := auth.NewService(db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	usersGroup := e.Group("/api/users")
	users.RegisterRoutesWithGroup(usersGroup, db, authService)

	genresGroup := e.Group("/api/genres")
	genres.RegisterRoutesWithGroup(genresGroup, db, authMiddleware)

	authorsGroup := e.Group("/api/authors")
	authors.RegisterRoutesWithGroup(authorsGroup, db, authMiddleware)

	booksGroup := e.Group("/api/books")
	books.RegisterRoutesWithGroup(booksGroup, db, authMiddleware)
	reviews.RegisterBookRoutes(booksGroup, db, authMiddleware)

	reviewsGroup := e.Group("/api/reviews")
	reviews.RegisterRoutesWithGroup(reviewsGroup, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
