package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID               int       `bun:",pk,nullzero" json:"id"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
	Title            string    `bun:",nullzero" json:"title"`
	Description      string    `bun:",nullzero" json:"description"`
	ReleaseYear      int       `bun:",nullzero" json:"release_year"`
	Image            string    `bun:",nullzero" json:"image"`
	GoodreadsURL     string    `bun:"goodreads_url,nullzero" json:"goodreads_url"`
	GoodreadsRating  float64   `json:"goodreads_rating"`
	NewspapersRating float64   `json:"newspapers_rating"`
}

type BookAuthor struct {
	bun.BaseModel `bun:"table:book_authors,alias:ba"`

	ID       int     `bun:",pk,nullzero" json:"id"`
	BookID   int     `bun:",nullzero" json:"book_id"`
	AuthorID int     `bun:",nullzero" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
}

type BookGenre struct {
	bun.BaseModel `bun:"table:book_genres,alias:bg"`

	ID      int    `bun:",pk,nullzero" json:"id"`
	BookID  int    `bun:",nullzero" json:"book_id"`
	GenreID int    `bun:",nullzero" json:"genre_id"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
}
