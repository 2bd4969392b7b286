package reviews

type ListReviewsQuery struct {
	BookID *int `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
	UserID *int `query:"user_id" json:"user_id,omitempty" validate:"omitempty,min=1"`
}

type CreateReviewPayload struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment string  `json:"comment" mod:"trim" validate:"required,max=2000"`
}
