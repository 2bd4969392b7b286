package reviews

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/matsjla/libris/pkg/database"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/matsjla/libris/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListReviewsOptions struct {
	BookID *int
	UserID *int
}

// RatingSummary is the derived rating statistics for one book. AverageRating
// is nil exactly when RatingCount is zero.
type RatingSummary struct {
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int      `json:"ratingCount"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Aggregate computes the mean rating and review count for a book straight
// from the review rows. Nothing is cached, so the result always reflects the
// review set at call time. The mean is rounded half away from zero to two
// decimals.
func (svc *Service) Aggregate(ctx context.Context, bookID int) (*RatingSummary, error) {
	var average sql.NullFloat64
	var count int

	err := svc.db.
		NewSelect().
		Model((*models.Review)(nil)).
		ColumnExpr("AVG(r.rating)").
		ColumnExpr("COUNT(*)").
		Where("r.book_id = ?", bookID).
		Scan(ctx, &average, &count)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	summary := &RatingSummary{RatingCount: count}
	if average.Valid {
		rounded := math.Round(average.Float64*100) / 100
		summary.AverageRating = &rounded
	}

	return summary, nil
}

func (svc *Service) CreateReview(ctx context.Context, review *models.Review) error {
	now := time.Now()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = review.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(review).
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict("You have already reviewed this book.")
		}
		if database.IsForeignKeyViolation(err) {
			return errcodes.ForeignKeyViolation("Review")
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveReview(ctx context.Context, userID, bookID int) (*models.Review, error) {
	review := &models.Review{}

	err := svc.db.
		NewSelect().
		Model(review).
		ColumnExpr("r.*").
		ColumnExpr("u.username AS username").
		Join("INNER JOIN users u ON u.id = r.user_id").
		Where("r.user_id = ?", userID).
		Where("r.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Review")
		}
		return nil, errors.WithStack(err)
	}

	return review, nil
}

func (svc *Service) ListReviews(ctx context.Context, opts ListReviewsOptions) ([]*models.Review, error) {
	var reviews []*models.Review

	q := svc.db.
		NewSelect().
		Model(&reviews).
		ColumnExpr("r.*").
		ColumnExpr("u.username AS username").
		Join("INNER JOIN users u ON u.id = r.user_id").
		Order("r.created_at ASC")

	if opts.BookID != nil {
		q = q.Where("r.book_id = ?", *opts.BookID)
	}
	if opts.UserID != nil {
		q = q.Where("r.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return reviews, nil
}

func (svc *Service) DeleteReview(ctx context.Context, userID, bookID int) error {
	result, err := svc.db.
		NewDelete().
		Model((*models.Review)(nil)).
		Where("user_id = ?", userID).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Review")
	}

	return nil
}
