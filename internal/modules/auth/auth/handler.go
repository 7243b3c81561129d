package auth

import (
	"strconv"

	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/authcookie"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc     *Service
	cookies *authcookie.Writer
	limit   gin.HandlerFunc
}

// NewHandler builds the auth routes. limit throttles register and login; nil disables it.
func NewHandler(svc *Service, cookies *authcookie.Writer, limit gin.HandlerFunc) *Handler {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	return &Handler{svc: svc, cookies: cookies, limit: limit}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, globalMW, tenantMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/register", h.limit, h.register)
	a.POST("/login", h.limit, h.login)
	a.POST("/logout", h.logout)

	a.GET("/me", tenantMW, h.me)
	a.POST("/change-password", globalMW, h.changePassword)
	a.GET("/activity", globalMW, h.activityList)
}

func (h *Handler) setSessionCookies(c *gin.Context, out *SignIn) {
	h.cookies.Set(c, authcookie.GlobalName, out.Tokens.Global.Token, out.Tokens.Global.ExpiresAtMs)
	h.cookies.Set(c, authcookie.TenantName, out.Tokens.Tenant.Token, out.Tokens.Tenant.ExpiresAtMs)
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.svc.Register(c.Request.Context(), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setSessionCookies(c, out)
	response.OK(c, out)
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.svc.Login(c.Request.Context(), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setSessionCookies(c, out)
	response.OK(c, out)
}

// POST /auth/logout
func (h *Handler) logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(),
		authcookie.Read(c, authcookie.GlobalName),
		authcookie.Read(c, authcookie.TenantName),
	)
	h.cookies.ClearAll(c)
	response.OK(c, gin.H{"ok": true})
}

// GET /auth/me
func (h *Handler) me(c *gin.Context) {
	out, err := h.svc.Me(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentTenantID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// POST /auth/change-password
func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), dto); err != nil {
		response.Error(c, err)
		return
	}
	h.cookies.ClearAll(c)
	response.OK(c, gin.H{"ok": true, "signedOut": true})
}

// GET /auth/activity?limit=N
func (h *Handler) activityList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.svc.Activity(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
