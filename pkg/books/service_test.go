package books

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/matsjla/libris/pkg/database"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/matsjla/libris/pkg/migrations"
	"github.com/matsjla/libris/pkg/models"
	"github.com/matsjla/libris/pkg/reviews"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// Pragmas are per-connection, so pin everything to one.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	require.NoError(t, database.Configure(db, time.Second))

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newTestService(db *bun.DB) *Service {
	return NewService(db, reviews.NewService(db))
}

func createTestAuthor(t *testing.T, db *bun.DB, name string) *models.Author {
	t.Helper()

	author := &models.Author{Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	_, err := db.NewInsert().Model(author).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return author
}

func createTestGenre(t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	_, err := db.NewInsert().Model(genre).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return genre
}

func createTestUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return user
}

func validInput(authorIDs, genreIDs []int) *CreateBookInput {
	return &CreateBookInput{
		Title:            "The Left Hand of Darkness",
		Description:      "An envoy visits a planet whose people have no fixed sex.",
		ReleaseYear:      1969,
		Image:            "https://covers.example.com/lhod.jpg",
		GoodreadsURL:     "https://www.goodreads.com/book/show/18423",
		GoodreadsRating:  4.09,
		NewspapersRating: 4.5,
		AuthorIDs:        authorIDs,
		GenreIDs:         genreIDs,
	}
}

func TestCreateBook_LinksAuthorsAndGenres(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	leguin := createTestAuthor(t, db, "Ursula K. Le Guin")
	other := createTestAuthor(t, db, "Someone Else")
	scifi := createTestGenre(t, db, "Science Fiction")
	classics := createTestGenre(t, db, "Classics")

	book, err := svc.CreateBook(ctx, validInput([]int{leguin.ID, other.ID}, []int{scifi.ID, classics.ID}))
	require.NoError(t, err)

	require.Len(t, book.Authors, 2)
	assert.Equal(t, leguin.ID, book.Authors[0].ID)
	assert.Equal(t, other.ID, book.Authors[1].ID)

	require.Len(t, book.Genres, 2)
	assert.Equal(t, scifi.ID, book.Genres[0].ID)
	assert.Equal(t, classics.ID, book.Genres[1].ID)

	assert.Nil(t, book.AverageRating)
	assert.Equal(t, 0, book.RatingCount)

	// Retrieving again returns the same association sets.
	found, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, found.Authors, 2)
	require.Len(t, found.Genres, 2)
}

func TestCreateBook_RejectsDuplicateInputIDs(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")

	_, err := svc.CreateBook(ctx, validInput([]int{author.ID, author.ID}, []int{genre.ID}))
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, "validation_error", errResp.Code)

	// Nothing was written.
	count, err := db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateBook_RollsBackWhenAuthorMissing(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	genre := createTestGenre(t, db, "Science Fiction")

	_, err := svc.CreateBook(ctx, validInput([]int{9999}, []int{genre.ID}))
	require.Error(t, err)
	require.ErrorIs(t, err, errcodes.ForeignKeyViolation("Book-author link"))

	// The transaction rolled back, so no book or link rows survive.
	bookCount, err := db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, bookCount)

	linkCount, err := db.NewSelect().Model((*models.BookGenre)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, linkCount)
}

func TestCreateBook_RequiresAtLeastOneAuthorAndGenre(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	genre := createTestGenre(t, db, "Science Fiction")
	author := createTestAuthor(t, db, "Ursula K. Le Guin")

	_, err := svc.CreateBook(ctx, validInput(nil, []int{genre.ID}))
	require.ErrorIs(t, err, errcodes.ValidationError("A book must have at least one author"))

	_, err = svc.CreateBook(ctx, validInput([]int{author.ID}, nil))
	require.ErrorIs(t, err, errcodes.ValidationError("A book must have at least one genre"))
}

func TestLinkAuthor_DuplicateLeavesLinksUntouched(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")

	book, err := svc.CreateBook(ctx, validInput([]int{author.ID}, []int{genre.ID}))
	require.NoError(t, err)

	err = svc.LinkAuthor(ctx, book.ID, author.ID)
	require.ErrorIs(t, err, errcodes.DuplicateAssociation("Author", "book"))

	authors, err := svc.AuthorsOf(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}

func TestLinkGenre_MissingBook(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	genre := createTestGenre(t, db, "Science Fiction")

	err := svc.LinkGenre(ctx, 12345, genre.ID)
	require.ErrorIs(t, err, errcodes.ForeignKeyViolation("Book-genre link"))
}

func TestRetrieveBook_NotFound(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := newTestService(db)

	_, err := svc.RetrieveBook(context.Background(), 42)
	require.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestRetrieveBook_IncludesRatingSummary(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	book, err := svc.CreateBook(ctx, validInput([]int{author.ID}, []int{genre.ID}))
	require.NoError(t, err)

	reviewSvc := reviews.NewService(db)
	require.NoError(t, reviewSvc.CreateReview(ctx, &models.Review{UserID: alice.ID, BookID: book.ID, Rating: 4, Comment: "Great."}))
	require.NoError(t, reviewSvc.CreateReview(ctx, &models.Review{UserID: bob.ID, BookID: book.ID, Rating: 5, Comment: "A classic."}))

	found, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AverageRating)
	assert.InDelta(t, 4.5, *found.AverageRating, 0.0001)
	assert.Equal(t, 2, found.RatingCount)
}

func TestListBooks_EmptyThenOne(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	books, err := svc.ListBooks(ctx, ListBooksOptions{})
	require.NoError(t, err)
	assert.Empty(t, books)

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")
	created, err := svc.CreateBook(ctx, validInput([]int{author.ID}, []int{genre.ID}))
	require.NoError(t, err)

	books, err = svc.ListBooks(ctx, ListBooksOptions{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, created.ID, books[0].ID)
}

func TestMostRecentBooks_OrdersByReleaseYearThenInsert(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")

	mk := func(title string, year int) *Book {
		input := validInput([]int{author.ID}, []int{genre.ID})
		input.Title = title
		input.ReleaseYear = year
		book, err := svc.CreateBook(ctx, input)
		require.NoError(t, err)
		return book
	}

	mk("Older", 2000)
	newest := mk("Newest", 2003)
	tieFirst := mk("Tie First", 2001)
	tieSecond := mk("Tie Second", 2001)

	limit := 3
	books, err := svc.MostRecentBooks(ctx, MostRecentBooksOptions{Limit: &limit})
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, newest.ID, books[0].ID)
	// Ties break by most recent insert first.
	assert.Equal(t, tieSecond.ID, books[1].ID)
	assert.Equal(t, tieFirst.ID, books[2].ID)
}
