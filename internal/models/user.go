package models

import "time"

type User struct {
	Base
	Email        string  `json:"email"       gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash string  `json:"-"           gorm:"size:255;not null"`
	DisplayName  *string `json:"displayName" gorm:"size:255"`
	IsDisabled   bool    `json:"isDisabled"  gorm:"not null;default:false"`
}

func (User) TableName() string { return "users" }

type Tenant struct {
	Base
	Slug     string `json:"slug"     gorm:"size:64;not null;uniqueIndex:idx_tenants_slug"`
	Name     string `json:"name"     gorm:"size:255;not null"`
	IsActive bool   `json:"isActive" gorm:"not null;default:true"`
}

func (Tenant) TableName() string { return "tenants" }

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"

	MembershipInvited   = "invited"
	MembershipActive    = "active"
	MembershipSuspended = "suspended"
	MembershipRemoved   = "removed"
)

// TenantUser is a user's membership in a tenant.
type TenantUser struct {
	TenantID  string    `json:"tenantId" gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId"   gorm:"type:char(36);primaryKey;index:idx_tenant_users_user"`
	Role      string    `json:"role"     gorm:"size:32;not null"`
	Status    string    `json:"status"   gorm:"size:32;not null"`
	JoinedAt  time.Time `json:"joinedAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TenantUser) TableName() string { return "tenant_users" }
