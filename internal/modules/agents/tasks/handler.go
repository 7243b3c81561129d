package tasks

import (
	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListQuery struct {
	SessionID string `form:"sessionId" binding:"omitempty,uuid"`
	Lifecycle string `form:"lifecycle" binding:"omitempty,oneof=open blocked canceled closed"`
	Status    string `form:"status"    binding:"omitempty,oneof=pending running succeeded failed"`
	Limit     int    `form:"limit"     binding:"omitempty,min=1,max=500"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tenantMW gin.HandlerFunc) {
	g := rg.Group("/agent-tasks", tenantMW)
	g.GET("", h.list)
	g.GET("/:taskId", h.detail)
}

// GET /agent-tasks?sessionId=&lifecycle=&status=&limit=
func (h *Handler) list(c *gin.Context) {
	var q ListQuery
	if err := request.BindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentTenantID(c), Filter{
		SessionID: q.SessionID,
		Lifecycle: q.Lifecycle,
		Status:    q.Status,
		Limit:     q.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"tasks": items})
}

// GET /agent-tasks/:taskId
func (h *Handler) detail(c *gin.Context) {
	id := c.Param("taskId")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperr.Validation("taskId must be a valid UUID"))
		return
	}
	d, err := h.svc.Detail(c.Request.Context(), middleware.CurrentTenantID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, d)
}
