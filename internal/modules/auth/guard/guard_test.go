package guard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aben/console/internal/modules/auth/session"
	"github.com/aben/console/internal/pkg/allowlist"
	"github.com/aben/console/internal/pkg/apperr"
	jwtpkg "github.com/aben/console/internal/pkg/jwt"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

type fixture struct {
	guard  *Guard
	issuer *session.Issuer
	store  *allowlist.Memory
	clock  *allowlist.ManualClock
	cfg    session.Config
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg, err := session.NewConfig(strings.Repeat("k", 32), 24*time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	clock := allowlist.NewManualClock(time.Unix(1_700_000_000, 0))
	store := allowlist.NewMemory(clock.Now)
	return fixture{
		guard:  New(cfg, store),
		issuer: session.NewIssuer(cfg, store).WithClock(clock.Now),
		store:  store,
		clock:  clock,
		cfg:    cfg,
	}
}

func (f fixture) signIn(t *testing.T, userID, tenantID string) (session.Token, session.Token) {
	t.Helper()
	ctx := context.Background()
	g, err := f.issuer.IssueGlobal(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	tt, err := f.issuer.IssueTenant(ctx, allowlist.TenantEntry{UserID: userID, TenantID: tenantID, Role: "owner", Status: "active"})
	if err != nil {
		t.Fatal(err)
	}
	return g, tt
}

func expectUnauthenticated(t *testing.T, err error, message string) {
	t.Helper()
	e, ok := apperr.As(err)
	if !ok {
		t.Fatalf("err = %v, want *apperr.Error", err)
	}
	if e.Code != "UNAUTHENTICATED" || e.Status != 401 {
		t.Fatalf("err = %+v", e)
	}
	if e.Message != message {
		t.Fatalf("message = %q, want %q", e.Message, message)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	f := newFixture(t)
	g, tt := f.signIn(t, "u1", "t1")
	id, err := f.guard.Authenticate(context.Background(), g.Token, tt.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id != (Identity{UserID: "u1", TenantID: "t1"}) {
		t.Fatalf("identity = %+v", id)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, tt := f.signIn(t, "u1", "t1")
	otherG, otherT := f.signIn(t, "u2", "t1")

	noTyp, err := jwtpkg.Sign(f.cfg.Secret, jwtlib.MapClaims{"sub": "u1", "jti": g.JTI, "iat": 1, "exp": 2})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name           string
		global, tenant string
		message        string
	}{
		{"no cookies", "", "", msgNotSignedIn},
		{"no tenant cookie", g.Token, "", msgNotSignedIn},
		{"garbage global", "x.y.z", tt.Token, msgInvalidToken},
		{"tenant token as global", tt.Token, tt.Token, msgInvalidClaims},
		{"missing typ", noTyp, tt.Token, msgInvalidClaims},
		{"garbage tenant", g.Token, "abc", msgInvalidToken},
		{"global token as tenant", g.Token, g.Token, msgInvalidClaims},
		{"cross user", g.Token, otherT.Token, msgInvalidSess},
		{"cross user global", otherG.Token, tt.Token, msgInvalidSess},
	}
	for _, tc := range cases {
		_, err := f.guard.Authenticate(ctx, tc.global, tc.tenant)
		if err == nil {
			t.Fatalf("%s: expected failure", tc.name)
		}
		expectUnauthenticated(t, err, tc.message)
	}
}

func TestRevocationIsImmediate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, tt := f.signIn(t, "u1", "t1")

	if err := f.store.RevokeTenant(ctx, tt.JTI); err != nil {
		t.Fatal(err)
	}
	_, err := f.guard.Authenticate(ctx, g.Token, tt.Token)
	expectUnauthenticated(t, err, msgRevoked)

	g2, tt2 := f.signIn(t, "u1", "t1")
	if err := f.store.RevokeGlobal(ctx, g2.JTI); err != nil {
		t.Fatal(err)
	}
	_, err = f.guard.Authenticate(ctx, g2.Token, tt2.Token)
	expectUnauthenticated(t, err, msgRevoked)
	_, err = f.guard.AuthenticateGlobal(ctx, g2.Token)
	expectUnauthenticated(t, err, msgRevoked)
}

func TestBulkRevocationRejectsEveryGlobalToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g1, _ := f.signIn(t, "u1", "t1")
	g2, _ := f.signIn(t, "u1", "t2")

	if _, err := f.store.RevokeAllGlobalForUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	for _, tok := range []string{g1.Token, g2.Token} {
		_, err := f.guard.AuthenticateGlobal(ctx, tok)
		expectUnauthenticated(t, err, msgRevoked)
	}
}

func TestAllowlistExpiryGatesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, tt := f.signIn(t, "u1", "t1")

	f.clock.Advance(11 * time.Minute)
	_, err := f.guard.Authenticate(ctx, g.Token, tt.Token)
	expectUnauthenticated(t, err, msgRevoked)

	if _, err := f.guard.AuthenticateGlobal(ctx, g.Token); err != nil {
		t.Fatalf("global session should still be live: %v", err)
	}
}

func TestTenantEntryMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, tt := f.signIn(t, "u1", "t1")

	if err := f.store.PutTenant(ctx, tt.JTI, allowlist.TenantEntry{UserID: "u1", TenantID: "t9", Role: "owner", Status: "active"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	_, err := f.guard.Authenticate(ctx, g.Token, tt.Token)
	expectUnauthenticated(t, err, msgRevoked)
}

type corruptStore struct{ *allowlist.Memory }

func (corruptStore) GetTenant(context.Context, string) (*allowlist.TenantEntry, error) {
	return nil, allowlist.ErrCorruptEntry
}

func TestCorruptEntryIsNotUnauthenticated(t *testing.T) {
	f := newFixture(t)
	g, tt := f.signIn(t, "u1", "t1")

	gd := New(f.cfg, corruptStore{f.store})
	_, err := gd.Authenticate(context.Background(), g.Token, tt.Token)
	if !errors.Is(err, allowlist.ErrCorruptEntry) {
		t.Fatalf("err = %v, want corrupt entry", err)
	}
	if _, ok := apperr.As(err); ok {
		t.Fatal("corrupt entry collapsed into a client error")
	}
}
