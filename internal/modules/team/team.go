// Package team lists the members of the caller's tenant.
package team

import (
	"context"
	"time"

	"github.com/aben/console/internal/middleware"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Member is one tenant_users row joined with its user.
type Member struct {
	UserID      string    `json:"userId"      gorm:"column:user_id"`
	Email       string    `json:"email"       gorm:"column:email"`
	DisplayName *string   `json:"displayName" gorm:"column:display_name"`
	IsDisabled  bool      `json:"isDisabled"  gorm:"column:is_disabled"`
	Role        string    `json:"role"        gorm:"column:role"`
	Status      string    `json:"status"      gorm:"column:status"`
	JoinedAt    time.Time `json:"joinedAt"    gorm:"column:joined_at"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   gorm:"column:updated_at"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) membersQuery(tx *gorm.DB, tenantID string) *gorm.DB {
	return tx.Table("tenant_users AS tu").
		Select("tu.user_id, u.email, u.display_name, u.is_disabled, tu.role, tu.status, tu.joined_at, tu.created_at, tu.updated_at").
		Joins("JOIN users u ON u.id = tu.user_id").
		Where("tu.tenant_id = ?", tenantID).
		Order("tu.joined_at ASC")
}

// ListMembers returns every membership of tenantID, oldest first.
func (s *Service) ListMembers(ctx context.Context, tenantID string) ([]Member, error) {
	out := []Member{}
	return out, s.membersQuery(s.db.WithContext(ctx), tenantID).Find(&out).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tenantMW gin.HandlerFunc) {
	rg.GET("/team/members", tenantMW, h.list)
}

// GET /team/members
func (h *Handler) list(c *gin.Context) {
	members, err := h.svc.ListMembers(c.Request.Context(), middleware.CurrentTenantID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"members": members})
}
