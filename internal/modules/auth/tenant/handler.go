package tenant

import (
	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/authcookie"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type SwitchDTO struct {
	TenantID string `json:"tenantId" binding:"required,max=64"`
}

type RefreshDTO struct {
	TenantID *string `json:"tenantId" binding:"omitempty,max=64"`
}

type Handler struct {
	svc     *Service
	cookies *authcookie.Writer
}

func NewHandler(svc *Service, cookies *authcookie.Writer) *Handler {
	return &Handler{svc: svc, cookies: cookies}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, globalMW gin.HandlerFunc) {
	a := rg.Group("/auth", globalMW)
	a.POST("/switch-tenant", h.switchTenant)
	a.POST("/refresh-tenant", h.refreshTenant)
}

// POST /auth/switch-tenant
func (h *Handler) switchTenant(c *gin.Context) {
	var dto SwitchDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.svc.Switch(c.Request.Context(), middleware.CurrentUserID(c), dto.TenantID,
		authcookie.Read(c, authcookie.TenantName))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cookies.Set(c, authcookie.TenantName, out.Token.Token, out.Token.ExpiresAtMs)
	response.OK(c, out)
}

// POST /auth/refresh-tenant
func (h *Handler) refreshTenant(c *gin.Context) {
	var dto RefreshDTO
	if err := request.BindOptionalJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.svc.Refresh(c.Request.Context(), middleware.CurrentUserID(c), dto.TenantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cookies.Set(c, authcookie.TenantName, out.Token.Token, out.Token.ExpiresAtMs)
	response.OK(c, out)
}
