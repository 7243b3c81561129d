// Package membership resolves which tenants a user can act in.
package membership

import (
	"context"
	"time"

	"github.com/aben/console/internal/models"
	"gorm.io/gorm"
)

// ActiveStatuses are the membership states that still grant tenant access.
var ActiveStatuses = []string{models.MembershipInvited, models.MembershipActive, models.MembershipSuspended}

// Membership is a user's standing in one active tenant.
type Membership struct {
	TenantID   string    `gorm:"column:tenant_id"`
	TenantSlug string    `gorm:"column:tenant_slug"`
	TenantName string    `gorm:"column:tenant_name"`
	Role       string    `gorm:"column:role"`
	Status     string    `gorm:"column:status"`
	JoinedAt   time.Time `gorm:"column:joined_at"`
}

// Lookup is the read side used by session flows.
type Lookup interface {
	FindActiveMembership(ctx context.Context, userID, tenantID string) (*Membership, error)
	ListActiveMemberships(ctx context.Context, userID string) ([]Membership, error)
	FindFirstActiveMembership(ctx context.Context, userID string) (*Membership, error)
}

type Repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) *Repository { return &Repository{db: db} }

func activeQuery(tx *gorm.DB, userID string) *gorm.DB {
	return tx.Table("tenant_users AS tu").
		Select("t.id AS tenant_id, t.slug AS tenant_slug, t.name AS tenant_name, tu.role, tu.status, tu.joined_at").
		Joins("JOIN tenants t ON t.id = tu.tenant_id").
		Where("tu.user_id = ? AND tu.status IN ? AND t.is_active = ?", userID, ActiveStatuses, true)
}

func (r *Repository) FindActiveMembership(ctx context.Context, userID, tenantID string) (*Membership, error) {
	var rows []Membership
	if err := activeQuery(r.db.WithContext(ctx), userID).
		Where("tu.tenant_id = ?", tenantID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListActiveMemberships returns memberships ordered by tenant name.
func (r *Repository) ListActiveMemberships(ctx context.Context, userID string) ([]Membership, error) {
	rows := []Membership{}
	return rows, activeQuery(r.db.WithContext(ctx), userID).
		Order("t.name ASC").
		Find(&rows).Error
}

// FindFirstActiveMembership returns the earliest joined membership.
func (r *Repository) FindFirstActiveMembership(ctx context.Context, userID string) (*Membership, error) {
	var rows []Membership
	if err := activeQuery(r.db.WithContext(ctx), userID).
		Order("tu.joined_at ASC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
