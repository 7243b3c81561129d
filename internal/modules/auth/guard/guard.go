// Package guard authenticates requests carrying a global and a tenant token.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/aben/console/internal/modules/auth/session"
	"github.com/aben/console/internal/pkg/allowlist"
	"github.com/aben/console/internal/pkg/apperr"
	jwtpkg "github.com/aben/console/internal/pkg/jwt"
)

const (
	msgNotSignedIn   = "Not signed in"
	msgInvalidToken  = "Invalid token"
	msgInvalidClaims = "Invalid token claims"
	msgRevoked       = "Session revoked"
	msgInvalidSess   = "Invalid session"
)

// Identity is the authenticated (user, tenant) pair.
type Identity struct {
	UserID   string
	TenantID string
}

// GlobalIdentity is the result of a global-token-only check.
type GlobalIdentity struct {
	UserID string
	JTI    string
}

type Guard struct {
	cfg   session.Config
	store allowlist.Store
}

func New(cfg session.Config, store allowlist.Store) *Guard {
	return &Guard{cfg: cfg, store: store}
}

// AuthenticateGlobal verifies the global token and its allowlist entry.
// Check failures are UNAUTHENTICATED *apperr.Error values; store errors pass through.
func (g *Guard) AuthenticateGlobal(ctx context.Context, globalToken string) (GlobalIdentity, error) {
	if globalToken == "" {
		return GlobalIdentity{}, apperr.Unauthenticated(msgNotSignedIn)
	}
	return g.checkGlobal(ctx, globalToken)
}

// Authenticate runs the full gate, short-circuiting on the first failure.
func (g *Guard) Authenticate(ctx context.Context, globalToken, tenantToken string) (Identity, error) {
	if globalToken == "" || tenantToken == "" {
		return Identity{}, apperr.Unauthenticated(msgNotSignedIn)
	}

	global, err := g.checkGlobal(ctx, globalToken)
	if err != nil {
		return Identity{}, err
	}

	tenant, err := g.cfg.VerifyTenantToken(tenantToken)
	if err != nil {
		return Identity{}, claimFailure(err)
	}
	if tenant.Subject != global.UserID {
		return Identity{}, apperr.Unauthenticated(msgInvalidSess)
	}

	entry, err := g.store.GetTenant(ctx, tenant.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("tenant allowlist lookup: %w", err)
	}
	if entry == nil || entry.UserID != tenant.Subject || entry.TenantID != tenant.TenantID {
		return Identity{}, apperr.Unauthenticated(msgRevoked)
	}
	return Identity{UserID: tenant.Subject, TenantID: tenant.TenantID}, nil
}

func (g *Guard) checkGlobal(ctx context.Context, token string) (GlobalIdentity, error) {
	claims, err := g.cfg.VerifyGlobalToken(token)
	if err != nil {
		return GlobalIdentity{}, claimFailure(err)
	}
	userID, err := g.store.GetGlobalUserID(ctx, claims.ID)
	if err != nil {
		return GlobalIdentity{}, fmt.Errorf("global allowlist lookup: %w", err)
	}
	if userID == "" || userID != claims.Subject {
		return GlobalIdentity{}, apperr.Unauthenticated(msgRevoked)
	}
	return GlobalIdentity{UserID: claims.Subject, JTI: claims.ID}, nil
}

func claimFailure(err error) error {
	if errors.Is(err, jwtpkg.ErrInvalidClaims) {
		return apperr.Unauthenticated(msgInvalidClaims)
	}
	return apperr.Unauthenticated(msgInvalidToken)
}
