// Package allowlist records which session identifiers are still valid.
//
// A signed token proves that its claims were issued by this service. The
// allowlist entry proves that the session has not been revoked since. Each
// entry expires on its own TTL; reverse indexes per user and per
// (tenant, user) support bulk revocation and are advisory only.
package allowlist

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// IndexGrace is added to a reverse index TTL so the index outlives its members.
const IndexGrace = 24 * time.Hour

// ErrCorruptEntry is returned when a stored tenant entry fails validation.
var ErrCorruptEntry = errors.New("allowlist: corrupt tenant entry")

var membershipStatuses = map[string]struct{}{
	"invited":   {},
	"active":    {},
	"suspended": {},
	"removed":   {},
}

// TenantEntry is the snapshot stored for a tenant session.
type TenantEntry struct {
	UserID   string
	TenantID string
	Role     string
	Status   string
}

// Validate reports whether every field is populated and the status is known.
func (e TenantEntry) Validate() error {
	if e.UserID == "" || e.TenantID == "" || e.Role == "" {
		return fmt.Errorf("%w: missing field", ErrCorruptEntry)
	}
	if _, ok := membershipStatuses[e.Status]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrCorruptEntry, e.Status)
	}
	return nil
}

// Store is the session allowlist.
//
// Getters return a zero value with a nil error when the key is absent.
// GetTenant returns ErrCorruptEntry for a present but invalid entry.
type Store interface {
	PutGlobal(ctx context.Context, jti, userID string, ttl time.Duration) error
	GetGlobalUserID(ctx context.Context, jti string) (string, error)
	RevokeGlobal(ctx context.Context, jti string) error

	PutTenant(ctx context.Context, jti string, entry TenantEntry, ttl time.Duration) error
	GetTenant(ctx context.Context, jti string) (*TenantEntry, error)
	RevokeTenant(ctx context.Context, jti string) error

	TrackUserGlobalJTI(ctx context.Context, userID, jti string, ttl time.Duration) error
	TrackTenantUserJTI(ctx context.Context, tenantID, userID, jti string, ttl time.Duration) error

	RevokeAllGlobalForUser(ctx context.Context, userID string) (int, error)
	RevokeAllTenantForUser(ctx context.Context, tenantID, userID string) (int, error)
}

func globalKey(jti string) string { return "auth:wl:global:" + jti }
func tenantKey(jti string) string { return "auth:wl:tenant:" + jti }

func userGlobalIndexKey(userID string) string { return "auth:user_global_jtis:" + userID }

func tenantUserIndexKey(tenantID, userID string) string {
	return "auth:tenant_user_jtis:" + tenantID + ":" + userID
}
