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

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes mounts the comment collection nested under a review.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:title_id/reviews/:review_id/comments", h.List)
	rg.POST("/:title_id/reviews/:review_id/comments", h.Create)
	rg.GET("/:title_id/reviews/:review_id/comments/:comment_id", h.Get)
	rg.PATCH("/:title_id/reviews/:review_id/comments/:comment_id", h.Update)
	rg.DELETE("/:title_id/reviews/:review_id/comments/:comment_id", h.Delete)
}

func commentIDs(c *gin.Context) (titleID, reviewID, commentID int64, ok bool) {
	var err error
	titleID, err = strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return 0, 0, 0, false
	}
	reviewID, err = strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return 0, 0, 0, false
	}
	if raw := c.Param("comment_id"); raw != "" {
		commentID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
			return 0, 0, 0, false
		}
	}
	return titleID, reviewID, commentID, true
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, _, ok := commentIDs(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	resp, err := h.svc.GetReviewComments(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentIDs(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

func (h *CommentHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionCreate, auth.KindComment, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required"})
		return
	}

	titleID, reviewID, _, ok := commentIDs(c)
	if !ok {
		return
	}

	var in dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.CreateComment(c.Request.Context(), actor.ID, titleID, reviewID, in.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentIDs(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionUpdate, auth.KindComment, comment.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to modify this comment"})
		return
	}

	var in dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.UpdateComment(c.Request.Context(), titleID, reviewID, commentID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentIDs(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionDelete, auth.KindComment, comment.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to delete this comment"})
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
