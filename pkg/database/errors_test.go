package database

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: book_authors.book_id, book_authors.author_id")))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: reviews.user_id, reviews.book_id (2067)")))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed (1555)")))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsUniqueViolation(errors.New("no such table: books")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, IsForeignKeyViolation(errors.New("constraint failed (787)")))

	assert.False(t, IsForeignKeyViolation(nil))
	assert.False(t, IsForeignKeyViolation(errors.New("UNIQUE constraint failed: users.username")))
}
