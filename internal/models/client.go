package models

import "time"

const (
	ClientEnabled  = "enabled"
	ClientDisabled = "disabled"
	ClientArchived = "archived"
)

// Client is a device or agent registered to a tenant.
type Client struct {
	Base
	TenantID     string     `json:"tenantId"     gorm:"type:char(36);not null;uniqueIndex:idx_clients_tenant_code,priority:1;uniqueIndex:idx_clients_tenant_auth_key,priority:1"`
	ClientType   string     `json:"clientType"   gorm:"size:50;not null"`
	Code         string     `json:"code"         gorm:"size:64;not null;uniqueIndex:idx_clients_tenant_code,priority:2"`
	Name         string     `json:"name"         gorm:"size:255;not null"`
	Description  *string    `json:"description"  gorm:"type:text"`
	Status       string     `json:"status"       gorm:"size:16;not null;default:enabled"`
	AuthKey      string     `json:"authKey"      gorm:"size:128;not null;uniqueIndex:idx_clients_tenant_auth_key,priority:2"`
	Version      *string    `json:"version"      gorm:"size:64"`
	Platform     *string    `json:"platform"     gorm:"size:64"`
	Config       RawJSON    `json:"config"       gorm:"type:json"`
	Capabilities RawJSON    `json:"capabilities" gorm:"type:json"`
	LastSeenAt   *time.Time `json:"lastSeenAt"`
	CreatedBy    *string    `json:"createdBy"    gorm:"type:char(36)"`
	UpdatedBy    *string    `json:"updatedBy"    gorm:"type:char(36)"`
}

func (Client) TableName() string { return "clients" }
