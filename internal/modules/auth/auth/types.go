package auth

import (
	"github.com/aben/console/internal/modules/auth/membership"
	"github.com/aben/console/internal/modules/auth/session"
)

type RegisterDTO struct {
	Email       string  `json:"email"       binding:"required,email,max=255"`
	Password    string  `json:"password"    binding:"required,min=8,max=200"`
	DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=255"`
	TenantName  string  `json:"tenantName"  binding:"required,min=1,max=255"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=8,max=200"`
}

type TokenPair struct {
	Global session.Token `json:"global"`
	Tenant session.Token `json:"tenant"`
}

// SignIn is the result of register and login.
type SignIn struct {
	UserID     string    `json:"userId"`
	TenantID   string    `json:"tenantId"`
	TenantSlug string    `json:"tenantSlug"`
	Tokens     TokenPair `json:"tokens"`
}

type UserView struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
}

type MeResult struct {
	User    UserView          `json:"user"`
	Tenant  membership.View   `json:"tenant"`
	Tenants []membership.View `json:"tenants"`
}
