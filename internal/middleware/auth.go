package middleware

import (
	"github.com/aben/console/internal/modules/auth/guard"
	"github.com/aben/console/internal/pkg/authcookie"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID    = "user_id"
	ContextKeyTenantID  = "tenant_id"
	ContextKeyGlobalJTI = "global_jti"
)

// TenantAuth requires both session cookies and a live tenant session.
func TenantAuth(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.Request.Context(),
			authcookie.Read(c, authcookie.GlobalName),
			authcookie.Read(c, authcookie.TenantName),
		)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ContextKeyUserID, id.UserID)
		c.Set(ContextKeyTenantID, id.TenantID)
		c.Next()
	}
}

// GlobalAuth requires only a live global session.
func GlobalAuth(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.AuthenticateGlobal(c.Request.Context(), authcookie.Read(c, authcookie.GlobalName))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ContextKeyUserID, id.UserID)
		c.Set(ContextKeyGlobalJTI, id.JTI)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user ID from the gin context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// CurrentTenantID returns the tenant selected by the tenant session.
func CurrentTenantID(c *gin.Context) string {
	return c.GetString(ContextKeyTenantID)
}
