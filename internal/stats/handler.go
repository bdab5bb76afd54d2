package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type Handler struct {
	service Service
	actor   programs.ActorResolver
	logger  *zap.Logger
}

func NewHandler(service Service, actor programs.ActorResolver, logger *zap.Logger) *Handler {
	return &Handler{service: service, actor: actor, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/overview", h.Overview)
	r.GET("/stats/departments", h.ByDepartment)
}

func (h *Handler) Overview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	overview, err := h.service.Overview(c.Request.Context(), actor)
	if err != nil {
		h.logger.Error("computing overview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) ByDepartment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	summaries, err := h.service.ByDepartment(c.Request.Context(), actor)
	if err != nil {
		h.logger.Error("computing department summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}
