// Package tenant moves a signed-in user between the tenants they belong to.
package tenant

import (
	"context"
	"fmt"

	"github.com/aben/console/internal/modules/auth/membership"
	"github.com/aben/console/internal/modules/auth/session"
	"github.com/aben/console/internal/pkg/allowlist"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"go.uber.org/zap"
)

var errNoAccess = apperr.ErrForbidden.WithMessage("No access to tenant")

// Result is the tenant now selected and its freshly issued session.
type Result struct {
	Tenant membership.View `json:"tenant"`
	Token  session.Token   `json:"-"`
}

type Service struct {
	members  membership.Lookup
	issuer   *session.Issuer
	sessions allowlist.Store
	pub      events.Publisher
	log      *zap.Logger
}

func NewService(members membership.Lookup, issuer *session.Issuer, sessions allowlist.Store, pub events.Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{members: members, issuer: issuer, sessions: sessions, pub: pub, log: log}
}

// Switch selects tenantID for userID. A non-member gets FORBIDDEN whether or
// not the tenant exists. The presented tenant token, when it verifies and
// belongs to userID, is revoked.
func (s *Service) Switch(ctx context.Context, userID, tenantID, currentTenantToken string) (*Result, error) {
	m, err := s.members.FindActiveMembership(ctx, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if m == nil {
		return nil, errNoAccess
	}

	fromTenantID := s.revokePrior(ctx, userID, currentTenantToken)

	tok, err := s.issue(ctx, userID, m)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(events.TenantSwitched(userID, fromTenantID, m.TenantID))
	return &Result{Tenant: m.View(), Token: tok}, nil
}

// Refresh reissues a tenant session. A nil or empty tenantID picks the first
// active membership ordered by tenant name.
func (s *Service) Refresh(ctx context.Context, userID string, tenantID *string) (*Result, error) {
	list, err := s.members.ListActiveMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	if len(list) == 0 {
		return nil, errNoAccess
	}

	var m *membership.Membership
	if tenantID == nil || *tenantID == "" {
		m = &list[0]
	} else {
		for i := range list {
			if list[i].TenantID == *tenantID {
				m = &list[i]
				break
			}
		}
	}
	if m == nil {
		return nil, errNoAccess
	}

	tok, err := s.issue(ctx, userID, m)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(events.TenantRefreshed(userID, m.TenantID))
	return &Result{Tenant: m.View(), Token: tok}, nil
}

func (s *Service) issue(ctx context.Context, userID string, m *membership.Membership) (session.Token, error) {
	return s.issuer.IssueTenant(ctx, allowlist.TenantEntry{
		UserID:   userID,
		TenantID: m.TenantID,
		Role:     m.Role,
		Status:   m.Status,
	})
}

// revokePrior returns the tenant the revoked token pointed at, or "".
func (s *Service) revokePrior(ctx context.Context, userID, token string) string {
	if token == "" {
		return ""
	}
	claims, err := s.issuer.Config().VerifyTenantToken(token)
	if err != nil || claims.Subject != userID {
		return ""
	}
	if err := s.sessions.RevokeTenant(ctx, claims.ID); err != nil {
		s.log.Warn("revoke prior tenant session failed", zap.String("user_id", userID), zap.Error(err))
	}
	return claims.TenantID
}
