package llmconfig

import (
	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tenantMW gin.HandlerFunc) {
	g := rg.Group("/exclusive/llm-config", tenantMW)
	g.GET("", h.list)
	g.PUT("", h.upsert)
	g.DELETE("", h.remove)
	g.POST("/:id/probe", h.probe)
}

// GET /exclusive/llm-config
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"configs": items})
}

// PUT /exclusive/llm-config
func (h *Handler) upsert(c *gin.Context) {
	var dto UpsertDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	cfg, err := h.svc.Upsert(c.Request.Context(), middleware.CurrentTenantID(c), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"config": cfg})
}

// DELETE /exclusive/llm-config?id=
func (h *Handler) remove(c *gin.Context) {
	id := c.Query("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperr.Validation("id must be a valid UUID"))
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), middleware.CurrentTenantID(c), middleware.CurrentUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deletedId": deleted})
}

// POST /exclusive/llm-config/:id/probe
func (h *Handler) probe(c *gin.Context) {
	out, err := h.svc.Probe(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}
