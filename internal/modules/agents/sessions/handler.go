package sessions

import (
	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/pagination"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	defaultMessageLimit = 5000
	maxMessageLimit     = 5000
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tenantMW gin.HandlerFunc) {
	g := rg.Group("/agent-sessions", tenantMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:sessionId/messages", h.messages)
	g.POST("/:sessionId/messages", h.appendMessage)
}

// GET /agent-sessions?page=&size=
func (h *Handler) list(c *gin.Context) {
	items, meta, err := h.svc.List(c.Request.Context(), middleware.CurrentTenantID(c), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, items, meta)
}

// POST /agent-sessions
func (h *Handler) create(c *gin.Context) {
	var dto CreateSessionDTO
	if err := request.BindOptionalJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	sess, err := h.svc.Create(c.Request.Context(), middleware.CurrentTenantID(c), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"session": sess})
}

// GET /agent-sessions/:sessionId/messages?limit=
func (h *Handler) messages(c *gin.Context) {
	limit := pagination.Limit(c, "limit", defaultMessageLimit, maxMessageLimit)
	items, err := h.svc.Messages(c.Request.Context(), middleware.CurrentTenantID(c), c.Param("sessionId"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"messages": items})
}

// POST /agent-sessions/:sessionId/messages
func (h *Handler) appendMessage(c *gin.Context) {
	var dto AppendMessageDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	msg, err := h.svc.Append(c.Request.Context(), middleware.CurrentTenantID(c), middleware.CurrentUserID(c), c.Param("sessionId"), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": msg})
}
