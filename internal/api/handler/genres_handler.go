package handler

import (
	"net/http"

	"reviewhub/internal/api/auth"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	resp, err := h.svc.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenreHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionCreate, auth.KindGenre, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	var in dto.CreateGenreDTO
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

func (h *GenreHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionDelete, auth.KindGenre, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
