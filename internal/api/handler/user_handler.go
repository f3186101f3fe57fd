package handler

import (
	"net/http"

	"reviewhub/internal/api/auth"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRoutes mounts user management plus the self-profile endpoint.
// authn requires a valid token; the admin check runs through the
// authorization engine per request.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authn gin.HandlerFunc) {
	rg.GET("/me", authn, h.Me)
	rg.PATCH("/me", authn, h.UpdateMe)

	rg.GET("", authn, h.List)
	rg.POST("", authn, h.Create)
	rg.GET("/:username", authn, h.Get)
	rg.PATCH("/:username", authn, h.Update)
	rg.DELETE("/:username", authn, h.Delete)
}

// Me returns the actor's own profile; open to any authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	resp, err := h.svc.GetByUsername(c.Request.Context(), actor.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMe applies a partial self-update. A non-admin actor's role change
// is accepted but not applied; the response reflects the stored role.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var in dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.UpdateSelf(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionList, auth.KindUser, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	page, pageSize := parsePagination(c)
	resp, err := h.svc.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionRetrieve, auth.KindUser, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	resp, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionCreate, auth.KindUser, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	var in dto.CreateUserDTO
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

func (h *UserHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionUpdate, auth.KindUser, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	var in dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.UpdateByUsername(c.Request.Context(), c.Param("username"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if !auth.Authorize(actor, auth.ActionDelete, auth.KindUser, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
		return
	}

	if err := h.svc.DeleteByUsername(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
