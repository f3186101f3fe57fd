package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/cache"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrTitleNotFound = apperr.New(apperr.KindNotFound, "title not found")
	// inclusive range, matching the check constraint on the reviews table
	ErrScoreOutOfRange = apperr.New(apperr.KindValidation, "score must be between 1 and 10")
	ErrDuplicateReview = apperr.New(apperr.KindValidation, "you have already reviewed this title")
	ErrReviewNotFound  = apperr.New(apperr.KindNotFound, "no such review for this title")
)

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	// GetReview returns the raw model so the HTTP layer can resolve the
	// owner for authorization before a mutation.
	GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	CreateReview(ctx context.Context, userID string, titleID int64, text string, score int) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
}

// NewReviewService wires the aggregation rules. ratings may be nil when no
// cache is configured.
func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository, ratings *cache.RatingCache) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
	}
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return &dto.PaginatedReviewResponse{
		Data:       resp,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
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

// CreateReview enforces the one-review-per-(author,title) invariant. The
// application-level check gives the friendly error; the unique index closes
// the race between concurrent duplicate submissions.
func (s *reviewService) CreateReview(ctx context.Context, userID string, titleID int64, text string, score int) (*dto.ReviewResponse, error) {
	if score < 1 || score > 10 {
		return nil, ErrScoreOutOfRange
	}

	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.GetByUserAndTitle(ctx, userID, titleID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		UserID:  userID,
		TitleID: titleID,
		Text:    text,
		Score:   score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.invalidateRating(ctx, titleID)

	// reload with the author preloaded
	review, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if in.Score != nil {
		if *in.Score < 1 || *in.Score > 10 {
			return nil, ErrScoreOutOfRange
		}
		review.Score = *in.Score
	}
	if in.Text != nil {
		review.Text = *in.Text
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.invalidateRating(ctx, titleID)

	review, err = s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.invalidateRating(ctx, titleID)
	return nil
}

// invalidateRating drops the cached average after any review write. Cache
// errors never fail the request.
func (s *reviewService) invalidateRating(ctx context.Context, titleID int64) {
	if s.ratings != nil {
		_ = s.ratings.Invalidate(ctx, titleID)
	}
}
