package books

import (
	"github.com/matsjla/libris/pkg/models"
)

// Book is the composed read view of a book: the stored row plus its linked
// authors and genres and the derived rating statistics, assembled at read
// time. The JSON field names mix snake_case and camelCase because existing
// consumers depend on that exact shape.
type Book struct {
	*models.Book

	Genres        []*models.Genre  `json:"genres"`
	Authors       []*models.Author `json:"authors"`
	AverageRating *float64         `json:"averageRating"`
	RatingCount   int              `json:"ratingCount"`
}

// CreateBookInput is the validated input for creating a fully-linked book.
type CreateBookInput struct {
	Title            string
	Description      string
	ReleaseYear      int
	Image            string
	GoodreadsURL     string
	GoodreadsRating  float64
	NewspapersRating float64
	AuthorIDs        []int
	GenreIDs         []int
}
