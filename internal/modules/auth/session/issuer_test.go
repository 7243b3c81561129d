package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aben/console/internal/pkg/allowlist"
)

var testSecret = strings.Repeat("s", 32)

func newTestIssuer(t *testing.T) (*Issuer, *allowlist.Memory, *allowlist.ManualClock) {
	t.Helper()
	cfg, err := NewConfig(testSecret, 30*24*time.Hour, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	clock := allowlist.NewManualClock(time.UnixMilli(1_700_000_000_123))
	store := allowlist.NewMemory(clock.Now)
	return NewIssuer(cfg, store).WithClock(clock.Now), store, clock
}

func TestNewConfigRequiresLongSecret(t *testing.T) {
	if _, err := NewConfig(strings.Repeat("s", 31), time.Hour, time.Minute); err == nil {
		t.Fatal("31-byte secret accepted")
	}
	if _, err := NewConfig(testSecret, 0, time.Minute); err == nil {
		t.Fatal("zero ttl accepted")
	}
}

func TestCreateGlobalSession(t *testing.T) {
	issuer, store, clock := newTestIssuer(t)
	ctx := context.Background()

	a, err := issuer.CreateGlobalSession(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := issuer.CreateGlobalSession(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if a.JTI == "" || a.JTI == b.JTI {
		t.Fatalf("jti not fresh: %q %q", a.JTI, b.JTI)
	}
	want := clock.Now().Add(30 * 24 * time.Hour).UnixMilli()
	if a.ExpiresAtMs != want {
		t.Fatalf("expiresAtMs = %d, want %d", a.ExpiresAtMs, want)
	}
	if u, _ := store.GetGlobalUserID(ctx, a.JTI); u != "u1" {
		t.Fatalf("allowlist user = %q", u)
	}
	if n, _ := store.RevokeAllGlobalForUser(ctx, "u1"); n != 3 {
		t.Fatalf("tracked sessions revoked = %d, want 3", n)
	}
}

func TestIssueTokensMatchAllowlist(t *testing.T) {
	issuer, store, clock := newTestIssuer(t)
	ctx := context.Background()

	g, err := issuer.IssueGlobal(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := issuer.Config().VerifyGlobalToken(g.Token)
	if err != nil {
		t.Fatalf("VerifyGlobalToken: %v", err)
	}
	if claims.Subject != "u1" || claims.ID != g.JTI {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.IssuedAt != clock.Now().Unix() || claims.ExpiresAt != g.ExpiresAtMs/1000 {
		t.Fatalf("iat/exp = %d/%d", claims.IssuedAt, claims.ExpiresAt)
	}

	entry := allowlist.TenantEntry{UserID: "u1", TenantID: "t1", Role: "owner", Status: "active"}
	tt, err := issuer.IssueTenant(ctx, entry)
	if err != nil {
		t.Fatal(err)
	}
	tc, err := issuer.Config().VerifyTenantToken(tt.Token)
	if err != nil {
		t.Fatal(err)
	}
	if tc.TenantID != "t1" || tc.ID != tt.JTI {
		t.Fatalf("tenant claims = %+v", tc)
	}
	got, err := store.GetTenant(ctx, tt.JTI)
	if err != nil || got == nil || *got != entry {
		t.Fatalf("tenant entry = %+v, %v", got, err)
	}
	if _, err := issuer.Config().VerifyGlobalToken(tt.Token); err == nil {
		t.Fatal("tenant token accepted as global")
	}

	clock.Advance(time.Hour)
	if got, _ := store.GetTenant(ctx, tt.JTI); got != nil {
		t.Fatal("tenant entry outlived its ttl")
	}
}
