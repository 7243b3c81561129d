package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/modules/auth/guard"
	"github.com/aben/console/internal/modules/auth/membership"
	"github.com/aben/console/internal/modules/auth/session"
	"github.com/aben/console/internal/pkg/allowlist"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeMembers struct {
	mu   sync.Mutex
	rows map[string][]membership.Membership
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{rows: make(map[string][]membership.Membership)}
}

func (f *fakeMembers) add(userID string, m membership.Membership) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userID] = append(f.rows[userID], m)
}

func (f *fakeMembers) setStatus(userID, tenantID, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows[userID] {
		if f.rows[userID][i].TenantID == tenantID {
			f.rows[userID][i].Status = status
		}
	}
}

func (f *fakeMembers) active(userID string) []membership.Membership {
	out := []membership.Membership{}
	for _, m := range f.rows[userID] {
		if m.Status != models.MembershipRemoved {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMembers) FindActiveMembership(_ context.Context, userID, tenantID string) (*membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.active(userID) {
		if m.TenantID == tenantID {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMembers) ListActiveMemberships(_ context.Context, userID string) ([]membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.active(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].TenantName < out[j].TenantName })
	return out, nil
}

func (f *fakeMembers) FindFirstActiveMembership(_ context.Context, userID string) (*membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.active(userID)
	if len(out) == 0 {
		return nil, nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return &out[0], nil
}

type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	slugs   map[string]bool
	members *fakeMembers
}

func newFakeStore(members *fakeMembers) *fakeStore {
	return &fakeStore{users: make(map[string]*models.User), slugs: make(map[string]bool), members: members}
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateAccount(_ context.Context, in NewAccount) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == in.Email {
			return nil, apperr.ErrEmailInUse
		}
	}
	slug := ""
	for _, s := range in.Slugs {
		if !f.slugs[s] {
			slug = s
			break
		}
	}
	if slug == "" {
		return nil, apperr.ErrTenantSlugInUse
	}
	f.slugs[slug] = true

	user := models.User{Base: models.Base{ID: uuid.NewString()}, Email: in.Email, PasswordHash: in.PasswordHash, DisplayName: in.DisplayName}
	f.users[user.ID] = &user
	tenant := models.Tenant{Base: models.Base{ID: uuid.NewString()}, Slug: slug, Name: in.TenantName, IsActive: true}
	f.members.add(user.ID, membership.Membership{
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		TenantName: tenant.Name,
		Role:       models.RoleOwner,
		Status:     models.MembershipActive,
		JoinedAt:   time.Now(),
	})
	return &Account{User: user, Tenant: tenant}, nil
}

func (f *fakeStore) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeStore) disable(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].IsDisabled = true
}

type fakeActivity struct {
	userID string
	limit  int
}

func (f *fakeActivity) List(_ context.Context, userID string, limit int) ([]events.Event, error) {
	f.userID, f.limit = userID, limit
	return []events.Event{events.LoggedIn(userID, "t1")}, nil
}

type fixture struct {
	svc      *Service
	store    *fakeStore
	members  *fakeMembers
	sessions *allowlist.Memory
	rec      *events.Recorder
	guard    *guard.Guard
	issuer   *session.Issuer
	activity *fakeActivity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg, err := session.NewConfig(strings.Repeat("s", 32), time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	sessions := allowlist.NewMemory(nil)
	issuer := session.NewIssuer(cfg, sessions)
	members := newFakeMembers()
	store := newFakeStore(members)
	rec := &events.Recorder{}
	activity := &fakeActivity{}
	return &fixture{
		svc:      NewService(store, members, issuer, sessions, activity, rec, zap.NewNop()),
		store:    store,
		members:  members,
		sessions: sessions,
		rec:      rec,
		guard:    guard.New(cfg, sessions),
		issuer:   issuer,
		activity: activity,
	}
}

func (f *fixture) register(t *testing.T, email, pw, tenant string) *SignIn {
	t.Helper()
	out, err := f.svc.Register(context.Background(), RegisterDTO{Email: email, Password: pw, TenantName: tenant})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return out
}
