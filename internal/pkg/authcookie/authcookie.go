// Package authcookie writes the session cookies.
package authcookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	GlobalName = "auth_global_token"
	TenantName = "auth_tenant_token"
)

// Options apply to every cookie written by Writer.
type Options struct {
	Secure bool
	Domain string
}

type Writer struct {
	opts Options
}

func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts}
}

// Set writes an httpOnly, SameSite=Lax cookie expiring at expiresAtMs.
func (w *Writer) Set(c *gin.Context, name, token string, expiresAtMs int64) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Domain:   w.opts.Domain,
		Expires:  time.UnixMilli(expiresAtMs).UTC(),
		Secure:   w.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie immediately.
func (w *Writer) Clear(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   w.opts.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   w.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAll expires both session cookies.
func (w *Writer) ClearAll(c *gin.Context) {
	w.Clear(c, GlobalName)
	w.Clear(c, TenantName)
}

// Read returns the named cookie value or "".
func Read(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}
