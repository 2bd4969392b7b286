package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Review is keyed by (user_id, book_id): a user can review a book at most
// once. Username is denormalized from the users table at read time for
// display.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	UserID    int       `bun:",pk" json:"user_id"`
	BookID    int       `bun:",pk" json:"book_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Rating    float64   `bun:",nullzero" json:"rating"`
	Comment   string    `json:"comment"`
	Username  string    `bun:",scanonly" json:"username"`
}
