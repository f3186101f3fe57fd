package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrCommentNotFound = apperr.New(apperr.KindNotFound, "comment not found")

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	// GetComment returns the raw model so the HTTP layer can resolve the
	// owner for authorization before a mutation.
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	CreateComment(ctx context.Context, userID string, titleID, reviewID int64, text string) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	titleRepo   repository.TitleRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		titleRepo:   titleRepo,
	}
}

// resolveReview checks that the title exists and the review belongs to it.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return &dto.PaginatedCommentResponse{
		Data:       resp,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *commentService) CreateComment(ctx context.Context, userID string, titleID, reviewID int64, text string) (*dto.CommentResponse, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:   userID,
		ReviewID: reviewID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if in.Text != nil {
		comment.Text = *in.Text
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	comment, err = s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error {
	if _, err := s.GetComment(ctx, titleID, reviewID, commentID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
