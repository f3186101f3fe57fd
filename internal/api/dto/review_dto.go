package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

// CreateReviewDTO for posting a review; the score range is re-checked in
// the service before persistence.
type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

// UpdateReviewDTO for partial updates
type UpdateReviewDTO struct {
	Text  *string `json:"text,omitempty"`
	Score *int    `json:"score,omitempty"`
}

// ReviewResponse identifies the author by username
type ReviewResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        review.ID,
		Author:    review.User.Username,
		Text:      review.Text,
		Score:     review.Score,
		CreatedAt: review.CreatedAt,
	}
}

// PaginatedReviewResponse for returning paginated reviews
type PaginatedReviewResponse struct {
	Data       []ReviewResponse `json:"data"`
	Pagination Pagination       `json:"pagination"`
}
