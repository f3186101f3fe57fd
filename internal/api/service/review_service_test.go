package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateReview_Success(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	titleRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	reviewRepo.On("GetByUserAndTitle", mock.Anything, "u1", int64(7)).Return(nil, gorm.ErrRecordNotFound)
	reviewRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.UserID == "u1" && r.TitleID == 7 && r.Score == 8
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Review).ID = 42
	}).Return(nil)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID: 42, TitleID: 7, UserID: "u1", Text: "great", Score: 8,
		User: models.User{Username: "alice"},
	}, nil)

	resp, err := svc.CreateReview(context.Background(), "u1", 7, "great", 8)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 8, resp.Score)
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	for _, score := range []int{0, -1, 11, 100} {
		_, err := svc.CreateReview(context.Background(), "u1", 7, "text", score)
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score %d must be rejected", score)
	}
	// the range check fires before any repository access
	titleRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

	for _, score := range []int{1, 10} {
		titleRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil).Once()
		reviewRepo.On("GetByUserAndTitle", mock.Anything, "u1", int64(7)).Return(nil, gorm.ErrRecordNotFound).Once()
		reviewRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Review).ID = 1
		}).Return(nil).Once()
		reviewRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Review{ID: 1, TitleID: 7, Score: score}, nil).Once()

		_, err := svc.CreateReview(context.Background(), "u1", 7, "text", score)
		assert.NoError(t, err, "boundary score %d must be accepted", score)
	}
}

func TestCreateReview_TitleNotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreateReview(context.Background(), "u1", 99, "text", 5)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestCreateReview_Duplicate(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	titleRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	reviewRepo.On("GetByUserAndTitle", mock.Anything, "u1", int64(7)).Return(&models.Review{ID: 3}, nil)

	_, err := svc.CreateReview(context.Background(), "u1", 7, "again", 5)

	assert.ErrorIs(t, err, ErrDuplicateReview)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Duplicate detection also covers the race closed by the unique index.
func TestCreateReview_DuplicateRace(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	titleRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	reviewRepo.On("GetByUserAndTitle", mock.Anything, "u1", int64(7)).Return(nil, gorm.ErrRecordNotFound)
	reviewRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.CreateReview(context.Background(), "u1", 7, "again", 5)

	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestGetReview_WrongTitle(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	reviewRepo.On("GetByID", mock.Anything, int64(5)).Return(&models.Review{ID: 5, TitleID: 8}, nil)

	_, err := svc.GetReview(context.Background(), 7, 5)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestUpdateReview_ScoreOutOfRange(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	reviewRepo.On("GetByID", mock.Anything, int64(5)).Return(&models.Review{ID: 5, TitleID: 7, Score: 5}, nil)

	bad := 11
	_, err := svc.UpdateReview(context.Background(), 7, 5, dto.UpdateReviewDTO{Score: &bad})

	assert.ErrorIs(t, err, ErrScoreOutOfRange)
	reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReview_NotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	reviewRepo.On("GetByID", mock.Anything, int64(5)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.DeleteReview(context.Background(), 7, 5)

	assert.ErrorIs(t, err, ErrReviewNotFound)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetTitleReviews_TitleNotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo, nil)

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetTitleReviews(context.Background(), 99, 1, 20)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}
