package books

type ListBooksQuery struct {
	Limit  *int `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset *int `query:"offset" json:"offset,omitempty" validate:"omitempty,min=0"`
}

type MostRecentBooksQuery struct {
	Limit int `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=50"`
}

// CreateBookPayload mirrors the wire contract of the create endpoint: scalar
// fields are camelCase on the way in, and the numeric fields must already be
// numbers (strings are rejected by the binder, not coerced).
type CreateBookPayload struct {
	Title            string  `json:"title" mod:"trim" validate:"required,max=300"`
	Description      string  `json:"description" mod:"trim" validate:"required,max=5000"`
	ReleaseYear      int     `json:"releaseYear" validate:"required,min=1,max=9999"`
	Image            string  `json:"image" mod:"trim" validate:"required,max=1000"`
	Genres           []int   `json:"genres" validate:"required,min=1,unique,dive,min=1"`
	Authors          []int   `json:"authors" validate:"required,min=1,unique,dive,min=1"`
	GoodreadsURL     string  `json:"goodreadsUrl" mod:"trim" validate:"required,url,max=1000"`
	GoodreadsRating  float64 `json:"goodreadsRating" validate:"required,min=0,max=5"`
	NewspapersRating float64 `json:"newspapersRating" validate:"required,min=0,max=5"`
}
