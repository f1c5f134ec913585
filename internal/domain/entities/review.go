package entities

// Review represents a user review of a place
type Review struct {
	ID        string    `json:"id"`
	PlaceID   string    `json:"place_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt Timestamp `json:"created_at"`
}

// ReviewSubmission is the exact body of the review-create call
type ReviewSubmission struct {
	UserID  string `json:"user_id" validate:"required"`
	PlaceID string `json:"place_id" validate:"required"`
	Text    string `json:"text" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}
