package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/modules/auth/membership"
	"github.com/aben/console/internal/modules/auth/session"
	"github.com/aben/console/internal/pkg/allowlist"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"github.com/aben/console/internal/pkg/password"
	"go.uber.org/zap"
)

const defaultActivityLimit = 20

// ActivityLog reads a user's recent auth events.
type ActivityLog interface {
	List(ctx context.Context, userID string, limit int) ([]events.Event, error)
}

type Service struct {
	store    Store
	members  membership.Lookup
	issuer   *session.Issuer
	sessions allowlist.Store
	activity ActivityLog
	pub      events.Publisher
	log      *zap.Logger
}

func NewService(
	store Store,
	members membership.Lookup,
	issuer *session.Issuer,
	sessions allowlist.Store,
	activity ActivityLog,
	pub events.Publisher,
	log *zap.Logger,
) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		members:  members,
		issuer:   issuer,
		sessions: sessions,
		activity: activity,
		pub:      pub,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*SignIn, error) {
	email := normalizeEmail(dto.Email)
	tenantName := strings.TrimSpace(dto.TenantName)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if tenantName == "" {
		return nil, apperr.Validation("tenantName is required")
	}

	existing, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, apperr.ErrEmailInUse
	}

	hash, err := password.Hash(dto.Password)
	if err != nil {
		return nil, err
	}

	var displayName *string
	if dto.DisplayName != nil {
		if name := strings.TrimSpace(*dto.DisplayName); name != "" {
			displayName = &name
		}
	}

	acct, err := s.store.CreateAccount(ctx, NewAccount{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		TenantName:   tenantName,
		Slugs:        SlugCandidates(tenantName),
	})
	if err != nil {
		return nil, err
	}

	out, err := s.signIn(ctx, allowlist.TenantEntry{
		UserID:   acct.User.ID,
		TenantID: acct.Tenant.ID,
		Role:     models.RoleOwner,
		Status:   models.MembershipActive,
	}, acct.Tenant.Slug)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(events.Registered(out.UserID, out.TenantID))
	s.log.Info("user registered", zap.String("user_id", out.UserID), zap.String("tenant_id", out.TenantID))
	return out, nil
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*SignIn, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(dto.Email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if user.IsDisabled {
		return nil, apperr.ErrUserDisabled
	}
	if !password.Verify(dto.Password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}

	m, err := s.members.FindFirstActiveMembership(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if m == nil {
		return nil, apperr.ErrNoTenant
	}

	out, err := s.signIn(ctx, allowlist.TenantEntry{
		UserID:   user.ID,
		TenantID: m.TenantID,
		Role:     m.Role,
		Status:   m.Status,
	}, m.TenantSlug)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(events.LoggedIn(out.UserID, out.TenantID))
	return out, nil
}

func (s *Service) signIn(ctx context.Context, entry allowlist.TenantEntry, slug string) (*SignIn, error) {
	global, err := s.issuer.IssueGlobal(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.issuer.IssueTenant(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &SignIn{
		UserID:     entry.UserID,
		TenantID:   entry.TenantID,
		TenantSlug: slug,
		Tokens:     TokenPair{Global: global, Tenant: tenant},
	}, nil
}

// Logout revokes whichever presented tokens verify. It never fails; revocation
// errors are logged.
func (s *Service) Logout(ctx context.Context, globalToken, tenantToken string) {
	cfg := s.issuer.Config()
	if globalToken != "" {
		if claims, err := cfg.VerifyGlobalToken(globalToken); err == nil {
			if err := s.sessions.RevokeGlobal(ctx, claims.ID); err != nil {
				s.log.Warn("revoke global session failed", zap.String("user_id", claims.Subject), zap.Error(err))
			}
		}
	}
	if tenantToken != "" {
		if claims, err := cfg.VerifyTenantToken(tenantToken); err == nil {
			if err := s.sessions.RevokeTenant(ctx, claims.ID); err != nil {
				s.log.Warn("revoke tenant session failed", zap.String("user_id", claims.Subject), zap.Error(err))
			}
		}
	}
}

// Me returns the caller's profile, current tenant and every active tenant.
func (s *Service) Me(ctx context.Context, userID, tenantID string) (*MeResult, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.IsDisabled {
		return nil, apperr.Unauthenticated("User not available")
	}

	list, err := s.members.ListActiveMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	var current *membership.Membership
	for i := range list {
		if list[i].TenantID == tenantID {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return nil, apperr.Unauthenticated("Tenant not available")
	}

	return &MeResult{
		User:    UserView{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName},
		Tenant:  current.View(),
		Tenants: membership.Views(list),
	}, nil
}

// ChangePassword replaces the password hash and signs the user out of every
// global session.
func (s *Service) ChangePassword(ctx context.Context, userID string, dto ChangePasswordDTO) error {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}
	if user.IsDisabled {
		return apperr.ErrUserDisabled
	}
	if !password.Verify(dto.CurrentPassword, user.PasswordHash) {
		return apperr.ErrInvalidCurrentPassword
	}

	hash, err := password.Hash(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	revoked, err := s.sessions.RevokeAllGlobalForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.log.Info("password changed", zap.String("user_id", userID), zap.Int("revoked_keys", revoked))
	s.pub.Publish(events.PasswordChanged(userID))
	return nil
}

// Activity returns recent auth events of userID, newest first.
func (s *Service) Activity(ctx context.Context, userID string, limit int) ([]events.Event, error) {
	if s.activity == nil {
		return []events.Event{}, nil
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.activity.List(ctx, userID, limit)
}
