package clients

import (
	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tenantMW gin.HandlerFunc) {
	g := rg.Group("/clients", tenantMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.PATCH("/:clientId", h.update)
	g.POST("/:clientId/rotate-key", h.rotateKey)
}

// GET /clients
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"clients": items})
}

// POST /clients
func (h *Handler) create(c *gin.Context) {
	var dto CreateClientDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	client, err := h.svc.Create(c.Request.Context(), middleware.CurrentTenantID(c), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"client": client})
}

// PATCH /clients/:clientId
func (h *Handler) update(c *gin.Context) {
	var dto UpdateClientDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	client, err := h.svc.Update(c.Request.Context(), middleware.CurrentTenantID(c), middleware.CurrentUserID(c), c.Param("clientId"), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"client": client})
}

// POST /clients/:clientId/rotate-key
func (h *Handler) rotateKey(c *gin.Context) {
	client, err := h.svc.RotateKey(c.Request.Context(), middleware.CurrentTenantID(c), middleware.CurrentUserID(c), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"client": client})
}
