package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/api/auth"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes mounts the review collection nested under a title.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:title_id/reviews", h.List)
	rg.POST("/:title_id/reviews", h.Create)
	rg.GET("/:title_id/reviews/:review_id", h.Get)
	rg.PATCH("/:title_id/reviews/:review_id", h.Update)
	rg.DELETE("/:title_id/reviews/:review_id", h.Delete)
}

func reviewIDs(c *gin.Context) (titleID, reviewID int64, ok bool) {
	var err error
	titleID, err = strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return 0, 0, false
	}
	if raw := c.Param("review_id"); raw != "" {
		reviewID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
			return 0, 0, false
		}
	}
	return titleID, reviewID, true
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, _, ok := reviewIDs(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	resp, err := h.svc.GetTitleReviews(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := reviewIDs(c)
	if !ok {
		return
	}

	review, err := h.svc.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionCreate, auth.KindReview, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required"})
		return
	}

	titleID, _, ok := reviewIDs(c)
	if !ok {
		return
	}

	var in dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.CreateReview(c.Request.Context(), actor.ID, titleID, in.Text, in.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := reviewIDs(c)
	if !ok {
		return
	}

	// resolve the owner before asking for a verdict
	review, err := h.svc.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionUpdate, auth.KindReview, review.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to modify this review"})
		return
	}

	var in dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.UpdateReview(c.Request.Context(), titleID, reviewID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := reviewIDs(c)
	if !ok {
		return
	}

	review, err := h.svc.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionDelete, auth.KindReview, review.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to delete this review"})
		return
	}

	if err := h.svc.DeleteReview(c.Request.Context(), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
