package handler

import (
	"net/http"

	"reviewhub/internal/api/auth"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	resp, err := h.svc.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionCreate, auth.KindCategory, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	var in dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionDelete, auth.KindCategory, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
