package programs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorResolver extracts the authenticated actor from the request
// context. The session layer owns authentication; handlers only consume
// its result.
type ActorResolver func(c *gin.Context) (Actor, bool)

type Handler struct {
	service Service
	actor   ActorResolver
}

func NewHandler(service Service, actor ActorResolver) *Handler {
	return &Handler{service: service, actor: actor}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	progs := rg.Group("/programs")
	{
		progs.POST("", h.Create)
		progs.GET("", h.List)
		progs.GET("/:id", h.Get)
		progs.PUT("/:id", h.Update)
		progs.DELETE("/:id", h.Delete)
		progs.GET("/:id/timeline", h.Timeline)

		progs.POST("/:id/submit", h.action(ActionSubmit))
		progs.POST("/:id/query", h.action(ActionQuery))
		progs.POST("/:id/answer-query", h.action(ActionAnswerQuery))
		progs.POST("/:id/approve", h.action(ActionApprove))
		progs.POST("/:id/reject", h.action(ActionReject))
		progs.POST("/:id/deduct-budget", h.action(ActionDeductBudget))
		progs.POST("/:id/accept-document", h.action(ActionAcceptDocument))
	}
	rg.GET("/statuses", h.StatusMetadata)
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	program, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *Handler) Get(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	program, err := h.service.Get(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var filter ProgramFilter
	if raw := c.Query("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		filter.Status = &status
	}
	if dept := c.Query("department"); dept != "" {
		filter.Department = &dept
	}
	programs, err := h.service.List(c.Request.Context(), filter, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *Handler) Update(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	program, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "program deleted"})
}

func (h *Handler) Timeline(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	view, err := h.service.Timeline(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// StatusMetadata exposes the canonical status table so presentation
// layers stop keeping their own label/color copies.
func (h *Handler) StatusMetadata(c *gin.Context) {
	type entry struct {
		Status Status `json:"status"`
		StatusMeta
		Terminal bool `json:"terminal"`
	}
	out := make([]entry, 0, len(forwardPath)+1)
	for _, s := range forwardPath {
		out = append(out, entry{Status: s, StatusMeta: s.Meta(), Terminal: s.IsTerminal()})
	}
	out = append(out, entry{Status: StatusRejected, StatusMeta: StatusRejected.Meta(), Terminal: true})
	c.JSON(http.StatusOK, out)
}

// action builds the POST handler for one workflow action endpoint.
func (h *Handler) action(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, id, ok := h.actorAndID(c)
		if !ok {
			return
		}
		var payload ActionPayload
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		program, err := h.service.ApplyAction(c.Request.Context(), id, action, actor, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, program)
	}
}

func (h *Handler) actorAndID(c *gin.Context) (Actor, uuid.UUID, bool) {
	actor, ok := h.actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
		return Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

// respondError maps the workflow error taxonomy onto HTTP statuses so the
// UI can distinguish permission, state, validation and conflict failures.
func respondError(c *gin.Context, err error) {
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": ErrForbidden.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
	case errors.Is(err, ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": ErrIllegalTransition.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"field":  validationErr.Field,
			"detail": validationErr.Field + " " + validationErr.Reason,
		})
	case errors.Is(err, ErrValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ErrValidationFailed.Error()})
	case errors.Is(err, ErrAmbiguousPendingQuery):
		c.JSON(http.StatusConflict, gin.H{"error": ErrAmbiguousPendingQuery.Error()})
	case errors.Is(err, ErrStaleSnapshot):
		c.JSON(http.StatusConflict, gin.H{"error": ErrStaleSnapshot.Error()})
	case errors.Is(err, ErrUnknownStatus):
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStatus.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
