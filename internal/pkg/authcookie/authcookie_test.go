package authcookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSetAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writer := NewWriter(Options{Secure: true})
	exp := time.Now().Add(time.Hour).UnixMilli()
	writer.Set(c, GlobalName, "tok", exp)
	writer.Clear(c, TenantName)

	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	set := cookies[0]
	if set.Name != GlobalName || set.Value != "tok" || !set.HttpOnly || !set.Secure || set.SameSite != http.SameSiteLaxMode || set.Path != "/" {
		t.Fatalf("set cookie = %+v", set)
	}
	if set.Expires.Unix() != exp/1000 {
		t.Fatalf("expires = %v", set.Expires)
	}
	cleared := cookies[1]
	if cleared.Name != TenantName || cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("cleared cookie = %+v", cleared)
	}
}

func TestRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: GlobalName, Value: "abc"})
	c.Request = req

	if got := Read(c, GlobalName); got != "abc" {
		t.Fatalf("Read = %q", got)
	}
	if got := Read(c, TenantName); got != "" {
		t.Fatalf("missing cookie = %q", got)
	}
}
