package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

// CreateCommentDTO for posting a comment on a review
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentDTO for partial updates
type UpdateCommentDTO struct {
	Text *string `json:"text,omitempty"`
}

// CommentResponse identifies the author by username
type CommentResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		Author:    comment.User.Username,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

// PaginatedCommentResponse for returning paginated comments
type PaginatedCommentResponse struct {
	Data       []CommentResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}
