package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is one user's review of one item. At most one feedback exists
// per (item, user) pair.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	Item      uuid.UUID `json:"item" validate:"required"`
	User      uuid.UUID `json:"user" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

type FeedbackAuthor struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	PhotoURL string    `json:"photoURL,omitempty"`
}

// FeedbackWithUser joins the review with its author's public fields.
type FeedbackWithUser struct {
	Feedback

	Author FeedbackAuthor `json:"author"`
}

type CreateFeedbackRequest struct {
	Item    uuid.UUID `json:"item" validate:"required"`
	Rating  int       `json:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" validate:"required"`
}
