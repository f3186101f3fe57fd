package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newReviewRouter mounts the review routes with an optional fixed actor
// injected ahead of the handlers.
func newReviewRouter(svc *MockReviewService, actor *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	titles := r.Group("/titles")
	if actor != nil {
		titles.Use(func(c *gin.Context) {
			middleware.SetCurrentUser(c, actor)
		})
	}
	NewReviewHandler(svc).RegisterRoutes(titles)
	return r
}

func TestReviewCreate_Anonymous(t *testing.T) {
	svc := new(MockReviewService)
	r := newReviewRouter(svc, nil)

	body := bytes.NewBufferString(`{"text":"great","score":8}`)
	req := httptest.NewRequest(http.MethodPost, "/titles/7/reviews", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewUpdate_NonOwnerDenied(t *testing.T) {
	svc := new(MockReviewService)
	actor := &models.User{ID: "u2", Username: "mallory", Role: models.RoleUser}
	r := newReviewRouter(svc, actor)

	svc.On("GetReview", mock.Anything, int64(7), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 7, UserID: "u1"}, nil)

	body := bytes.NewBufferString(`{"text":"hijacked"}`)
	req := httptest.NewRequest(http.MethodPatch, "/titles/7/reviews/5", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewUpdate_OwnerAllowed(t *testing.T) {
	svc := new(MockReviewService)
	actor := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}
	r := newReviewRouter(svc, actor)

	svc.On("GetReview", mock.Anything, int64(7), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 7, UserID: "u1"}, nil)
	svc.On("UpdateReview", mock.Anything, int64(7), int64(5), mock.Anything).
		Return(&dto.ReviewResponse{ID: 5, Author: "alice", Text: "edited", Score: 9}, nil)

	body := bytes.NewBufferString(`{"text":"edited","score":9}`)
	req := httptest.NewRequest(http.MethodPatch, "/titles/7/reviews/5", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"edited"`)
}

func TestReviewDelete_ModeratorAllowed(t *testing.T) {
	svc := new(MockReviewService)
	actor := &models.User{ID: "u3", Username: "mod", Role: models.RoleModerator}
	r := newReviewRouter(svc, actor)

	svc.On("GetReview", mock.Anything, int64(7), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 7, UserID: "u1"}, nil)
	svc.On("DeleteReview", mock.Anything, int64(7), int64(5)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/titles/7/reviews/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReviewDelete_NonOwnerDenied(t *testing.T) {
	svc := new(MockReviewService)
	actor := &models.User{ID: "u2", Username: "bob", Role: models.RoleUser}
	r := newReviewRouter(svc, actor)

	svc.On("GetReview", mock.Anything, int64(7), int64(5)).
		Return(&models.Review{ID: 5, TitleID: 7, UserID: "u1"}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/titles/7/reviews/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewList_OpenToAnonymous(t *testing.T) {
	svc := new(MockReviewService)
	r := newReviewRouter(svc, nil)

	svc.On("GetTitleReviews", mock.Anything, int64(7), 1, 20).
		Return(&dto.PaginatedReviewResponse{Data: []dto.ReviewResponse{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/titles/7/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewGet_BadTitleID(t *testing.T) {
	svc := new(MockReviewService)
	r := newReviewRouter(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/titles/abc/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
