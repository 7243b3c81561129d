// Package session mints global and tenant sessions backed by the allowlist.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aben/console/internal/pkg/allowlist"
	jwtpkg "github.com/aben/console/internal/pkg/jwt"
	"github.com/google/uuid"
)

// Session identifies an allowlist entry and its absolute expiry.
type Session struct {
	JTI         string
	ExpiresAtMs int64
}

// Token is a signed session handed to the client.
type Token struct {
	Token       string `json:"token"`
	ExpiresAtMs int64  `json:"expiresAtMs"`
	JTI         string `json:"-"`
}

type Issuer struct {
	cfg   Config
	store allowlist.Store
	now   func() time.Time
	newID func() string
}

func NewIssuer(cfg Config, store allowlist.Store) *Issuer {
	return &Issuer{
		cfg:   cfg,
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// WithClock replaces the time source.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) Config() Config { return i.cfg }

// CreateGlobalSession writes a fresh global allowlist entry for userID.
func (i *Issuer) CreateGlobalSession(ctx context.Context, userID string) (Session, error) {
	s, _, err := i.createGlobal(ctx, userID)
	return s, err
}

// CreateTenantSession writes a fresh tenant allowlist entry.
func (i *Issuer) CreateTenantSession(ctx context.Context, entry allowlist.TenantEntry) (Session, error) {
	s, _, err := i.createTenant(ctx, entry)
	return s, err
}

func (i *Issuer) createGlobal(ctx context.Context, userID string) (Session, time.Time, error) {
	now := i.now()
	jti := i.newID()
	ttl := i.cfg.GlobalTTL
	if err := i.store.PutGlobal(ctx, jti, userID, ttl); err != nil {
		return Session{}, now, fmt.Errorf("put global session: %w", err)
	}
	if err := i.store.TrackUserGlobalJTI(ctx, userID, jti, ttl); err != nil {
		return Session{}, now, fmt.Errorf("track global session: %w", err)
	}
	return Session{JTI: jti, ExpiresAtMs: now.Add(ttl).UnixMilli()}, now, nil
}

func (i *Issuer) createTenant(ctx context.Context, entry allowlist.TenantEntry) (Session, time.Time, error) {
	now := i.now()
	jti := i.newID()
	ttl := i.cfg.TenantTTL
	if err := i.store.PutTenant(ctx, jti, entry, ttl); err != nil {
		return Session{}, now, fmt.Errorf("put tenant session: %w", err)
	}
	if err := i.store.TrackTenantUserJTI(ctx, entry.TenantID, entry.UserID, jti, ttl); err != nil {
		return Session{}, now, fmt.Errorf("track tenant session: %w", err)
	}
	return Session{JTI: jti, ExpiresAtMs: now.Add(ttl).UnixMilli()}, now, nil
}

// IssueGlobal creates a global session and signs its token. iat and exp
// come from the same clock reading as the allowlist TTL.
func (i *Issuer) IssueGlobal(ctx context.Context, userID string) (Token, error) {
	s, now, err := i.createGlobal(ctx, userID)
	if err != nil {
		return Token{}, err
	}
	claims := jwtpkg.GlobalClaims{
		Subject:   userID,
		ID:        s.JTI,
		IssuedAt:  now.Unix(),
		ExpiresAt: s.ExpiresAtMs / 1000,
	}
	signed, err := jwtpkg.Sign(i.cfg.Secret, claims.Map())
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, ExpiresAtMs: s.ExpiresAtMs, JTI: s.JTI}, nil
}

// IssueTenant creates a tenant session and signs its token.
func (i *Issuer) IssueTenant(ctx context.Context, entry allowlist.TenantEntry) (Token, error) {
	s, now, err := i.createTenant(ctx, entry)
	if err != nil {
		return Token{}, err
	}
	claims := jwtpkg.TenantClaims{
		Subject:   entry.UserID,
		TenantID:  entry.TenantID,
		ID:        s.JTI,
		IssuedAt:  now.Unix(),
		ExpiresAt: s.ExpiresAtMs / 1000,
	}
	signed, err := jwtpkg.Sign(i.cfg.Secret, claims.Map())
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, ExpiresAtMs: s.ExpiresAtMs, JTI: s.JTI}, nil
}
