package reviews

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/matsjla/libris/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	reviewService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListReviewsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reviews, err := h.reviewService.ListReviews(ctx, ListReviewsOptions{
		BookID: params.BookID,
		UserID: params.UserID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, reviews))
}

// create writes the authenticated user's review for the book in the path.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := CreateReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review := &models.Review{
		UserID:  user.ID,
		BookID:  bookID,
		Rating:  params.Rating,
		Comment: params.Comment,
	}
	if err := h.reviewService.CreateReview(ctx, review); err != nil {
		return errors.WithStack(err)
	}

	review, err = h.reviewService.RetrieveReview(ctx, user.ID, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, review))
}

// remove deletes the authenticated user's review for the book in the path.
func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	if err := h.reviewService.DeleteReview(ctx, user.ID, bookID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
