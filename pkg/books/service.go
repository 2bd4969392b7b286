package books

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/matsjla/libris/pkg/database"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/matsjla/libris/pkg/models"
	"github.com/matsjla/libris/pkg/reviews"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListBooksOptions struct {
	Limit  *int
	Offset *int
}

type MostRecentBooksOptions struct {
	Limit *int
}

type Service struct {
	db            *bun.DB
	reviewService *reviews.Service
}

func NewService(db *bun.DB, reviewService *reviews.Service) *Service {
	return &Service{db, reviewService}
}

// CreateBook creates a book row together with all of its author and genre
// links as one atomic unit: either every row commits or none do, so a
// partially-linked book is never visible to readers. Duplicate ids within the
// input are rejected up front instead of being left to trip the store's
// uniqueness constraint. Returns the composed view of the new book.
func (svc *Service) CreateBook(ctx context.Context, input *CreateBookInput) (*Book, error) {
	if err := validateCreateBookInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	book := &models.Book{
		CreatedAt:        now,
		UpdatedAt:        now,
		Title:            input.Title,
		Description:      input.Description,
		ReleaseYear:      input.ReleaseYear,
		Image:            input.Image,
		GoodreadsURL:     input.GoodreadsURL,
		GoodreadsRating:  input.GoodreadsRating,
		NewspapersRating: input.NewspapersRating,
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Insert book.
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		// Insert links.
		for _, authorID := range input.AuthorIDs {
			if err := svc.linkAuthor(ctx, tx, book.ID, authorID); err != nil {
				return err
			}
		}
		for _, genreID := range input.GenreIDs {
			if err := svc.linkGenre(ctx, tx, book.ID, genreID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return svc.RetrieveBook(ctx, book.ID)
}

func validateCreateBookInput(input *CreateBookInput) error {
	switch {
	case input.Title == "":
		return errcodes.ValidationError(`"title" is required`)
	case input.Description == "":
		return errcodes.ValidationError(`"description" is required`)
	case input.ReleaseYear == 0:
		return errcodes.ValidationError(`"releaseYear" is required`)
	case input.Image == "":
		return errcodes.ValidationError(`"image" is required`)
	case input.GoodreadsURL == "":
		return errcodes.ValidationError(`"goodreadsUrl" is required`)
	case len(input.AuthorIDs) == 0:
		return errcodes.ValidationError("A book must have at least one author")
	case len(input.GenreIDs) == 0:
		return errcodes.ValidationError("A book must have at least one genre")
	}

	if id, ok := firstDuplicate(input.AuthorIDs); ok {
		return errcodes.ValidationError(fmt.Sprintf("Author %d appears more than once", id))
	}
	if id, ok := firstDuplicate(input.GenreIDs); ok {
		return errcodes.ValidationError(fmt.Sprintf("Genre %d appears more than once", id))
	}

	return nil
}

func firstDuplicate(ids []int) (int, bool) {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}

// LinkAuthor associates an author with a book. Fails with
// DuplicateAssociation if the pair already exists and ForeignKeyViolation if
// either side is missing; the store's unique index is the arbiter under
// concurrency, not application-level locking.
func (svc *Service) LinkAuthor(ctx context.Context, bookID, authorID int) error {
	return svc.linkAuthor(ctx, svc.db, bookID, authorID)
}

// LinkGenre associates a genre with a book. Same failure contract as
// LinkAuthor.
func (svc *Service) LinkGenre(ctx context.Context, bookID, genreID int) error {
	return svc.linkGenre(ctx, svc.db, bookID, genreID)
}

func (svc *Service) linkAuthor(ctx context.Context, idb bun.IDB, bookID, authorID int) error {
	link := &models.BookAuthor{BookID: bookID, AuthorID: authorID}
	_, err := idb.
		NewInsert().
		Model(link).
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.DuplicateAssociation("Author", "book")
		}
		if database.IsForeignKeyViolation(err) {
			return errcodes.ForeignKeyViolation("Book-author link")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) linkGenre(ctx context.Context, idb bun.IDB, bookID, genreID int) error {
	link := &models.BookGenre{BookID: bookID, GenreID: genreID}
	_, err := idb.
		NewInsert().
		Model(link).
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.DuplicateAssociation("Genre", "book")
		}
		if database.IsForeignKeyViolation(err) {
			return errcodes.ForeignKeyViolation("Book-genre link")
		}
		return errors.WithStack(err)
	}
	return nil
}

// AuthorsOf returns the authors linked to a book in link-insertion order.
func (svc *Service) AuthorsOf(ctx context.Context, bookID int) ([]*models.Author, error) {
	authors := []*models.Author{}

	err := svc.db.
		NewSelect().
		Model(&authors).
		Join("INNER JOIN book_authors ba ON ba.author_id = a.id").
		Where("ba.book_id = ?", bookID).
		OrderExpr("ba.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return authors, nil
}

// GenresOf returns the genres linked to a book in link-insertion order.
func (svc *Service) GenresOf(ctx context.Context, bookID int) ([]*models.Genre, error) {
	genres := []*models.Genre{}

	err := svc.db.
		NewSelect().
		Model(&genres).
		Join("INNER JOIN book_genres bg ON bg.genre_id = g.id").
		Where("bg.book_id = ?", bookID).
		OrderExpr("bg.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}

// RetrieveBook returns the composed view of one book.
func (svc *Service) RetrieveBook(ctx context.Context, id int) (*Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return svc.compose(ctx, book)
}

// ListBooks returns all books, composed, in insertion order.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*Book, error) {
	return svc.listComposed(ctx, opts.Limit, opts.Offset, "b.id ASC")
}

// MostRecentBooks returns books ordered by release year descending, ties
// broken by most recent insert first. No other sort criterion is applied.
func (svc *Service) MostRecentBooks(ctx context.Context, opts MostRecentBooksOptions) ([]*Book, error) {
	return svc.listComposed(ctx, opts.Limit, nil, "b.release_year DESC", "b.id DESC")
}

func (svc *Service) listComposed(ctx context.Context, limit, offset *int, order ...string) ([]*Book, error) {
	rows := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&rows).
		Order(order...)

	if limit != nil {
		q = q.Limit(*limit)
	}
	if offset != nil {
		q = q.Offset(*offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	books := make([]*Book, 0, len(rows))
	for _, row := range rows {
		book, err := svc.compose(ctx, row)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, nil
}

func (svc *Service) compose(ctx context.Context, book *models.Book) (*Book, error) {
	authors, err := svc.AuthorsOf(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	genres, err := svc.GenresOf(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	summary, err := svc.reviewService.Aggregate(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	return &Book{
		Book:          book,
		Genres:        genres,
		Authors:       authors,
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
	}, nil
}
