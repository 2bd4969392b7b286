package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/binder"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/matsjla/libris/pkg/models"
	"github.com/matsjla/libris/pkg/reviews"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, payload, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandler_Retrieve_WireShape(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)
	h := &handler{bookService: svc}

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")
	user := createTestUser(t, db, "alice")

	book, err := svc.CreateBook(ctx, validInput([]int{author.ID}, []int{genre.ID}))
	require.NoError(t, err)

	reviewSvc := reviews.NewService(db)
	require.NoError(t, reviewSvc.CreateReview(ctx, &models.Review{UserID: user.ID, BookID: book.ID, Rating: 4, Comment: "Great."}))

	c, rr := newTestContext(t, "", http.MethodGet, "/api/books/"+strconv.Itoa(book.ID))
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	require.NoError(t, h.retrieve(c))
	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	// Existing consumers depend on these exact field names.
	for _, field := range []string{
		"id", "title", "description", "release_year", "image",
		"goodreads_url", "goodreads_rating", "newspapers_rating",
		"genres", "authors", "averageRating", "ratingCount",
	} {
		assert.Contains(t, body, field)
	}
	assert.NotContains(t, body, "created_at")
	assert.NotContains(t, body, "updated_at")

	var avg float64
	require.NoError(t, json.Unmarshal(body["averageRating"], &avg))
	assert.InDelta(t, 4.0, avg, 0.0001)
}

func TestHandler_Retrieve_AverageRatingNullWithoutReviews(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	svc := newTestService(db)
	h := &handler{bookService: svc}

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")

	book, err := svc.CreateBook(ctx, validInput([]int{author.ID}, []int{genre.ID}))
	require.NoError(t, err)

	c, rr := newTestContext(t, "", http.MethodGet, "/api/books/"+strconv.Itoa(book.ID))
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	require.NoError(t, h.retrieve(c))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "null", string(body["averageRating"]))
	assert.Equal(t, "0", string(body["ratingCount"]))
}

func TestHandler_Create(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := newTestService(db)
	h := &handler{bookService: svc}

	author := createTestAuthor(t, db, "Ursula K. Le Guin")
	genre := createTestGenre(t, db, "Science Fiction")

	payload := `{
		"title": "The Dispossessed",
		"description": "A physicist travels between two worlds.",
		"releaseYear": 1974,
		"image": "https://covers.example.com/dispossessed.jpg",
		"genres": [` + strconv.Itoa(genre.ID) + `],
		"authors": [` + strconv.Itoa(author.ID) + `],
		"goodreadsUrl": "https://www.goodreads.com/book/show/13651",
		"goodreadsRating": 4.25,
		"newspapersRating": 4.0
	}`
	c, rr := newTestContext(t, payload, http.MethodPost, "/api/books")

	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp Book
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "The Dispossessed", resp.Title)
	assert.Equal(t, 1974, resp.ReleaseYear)
	require.Len(t, resp.Authors, 1)
	require.Len(t, resp.Genres, 1)
}

func TestHandler_Create_RejectsStringRating(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := newTestService(db)
	h := &handler{bookService: svc}

	payload := `{
		"title": "The Dispossessed",
		"description": "A physicist travels between two worlds.",
		"releaseYear": 1974,
		"image": "https://covers.example.com/dispossessed.jpg",
		"genres": [1],
		"authors": [1],
		"goodreadsUrl": "https://www.goodreads.com/book/show/13651",
		"goodreadsRating": "4.25",
		"newspapersRating": 4.0
	}`
	c, _ := newTestContext(t, payload, http.MethodPost, "/api/books")

	err := h.create(c)
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, errResp.HTTPCode)
}
