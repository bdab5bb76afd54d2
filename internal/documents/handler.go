package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type Handler struct {
	service Service
	actor   programs.ActorResolver
}

func NewHandler(service Service, actor programs.ActorResolver) *Handler {
	return &Handler{service: service, actor: actor}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/programs/:id/documents", h.Attach)
	r.GET("/programs/:id/documents", h.Checklist)
	r.GET("/programs/:id/documents/:category", h.History)
}

func (h *Handler) Attach(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
		return
	}
	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.service.Attach(c.Request.Context(), actor, programID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) Checklist(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
		return
	}
	entries, err := h.service.Checklist(c.Request.Context(), actor, programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) History(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
		return
	}
	history, err := h.service.History(c.Request.Context(), actor, programID, Category(c.Param("category")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, programs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not allowed to perform this action"})
	case errors.Is(err, programs.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": programs.ErrIllegalTransition.Error()})
	case errors.Is(err, programs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
	case errors.Is(err, programs.ErrValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
