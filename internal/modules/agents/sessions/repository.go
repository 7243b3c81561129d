package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/pagination"
	"github.com/aben/console/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists sessions and their messages. Append returns nil, nil
// when the session does not exist in the tenant.
type Repository interface {
	List(ctx context.Context, tenantID string, q pagination.Query) ([]models.AgentSession, response.Pagination, error)
	Create(ctx context.Context, s *models.AgentSession) error
	Messages(ctx context.Context, tenantID, sessionID string, limit int) ([]models.AgentMessage, error)
	Append(ctx context.Context, msg *models.AgentMessage, at time.Time) (*models.AgentMessage, error)
}

type GormRepository struct{ db *gorm.DB }

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{db: db} }

func listQuery(tx *gorm.DB, tenantID string) *gorm.DB {
	return tx.Model(&models.AgentSession{}).
		Where("tenant_id = ?", tenantID).
		Order("COALESCE(last_message_at, created_at) DESC")
}

func (r *GormRepository) List(ctx context.Context, tenantID string, q pagination.Query) ([]models.AgentSession, response.Pagination, error) {
	out := []models.AgentSession{}
	meta, err := pagination.Paginate(listQuery(r.db.WithContext(ctx), tenantID), q, &out)
	return out, meta, err
}

func (r *GormRepository) Create(ctx context.Context, s *models.AgentSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func messagesQuery(tx *gorm.DB, tenantID, sessionID string, limit int) *gorm.DB {
	return tx.Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("seq ASC").
		Limit(limit)
}

func (r *GormRepository) Messages(ctx context.Context, tenantID, sessionID string, limit int) ([]models.AgentMessage, error) {
	out := []models.AgentMessage{}
	return out, messagesQuery(r.db.WithContext(ctx), tenantID, sessionID, limit).Find(&out).Error
}

func lockSession(tx *gorm.DB, tenantID, sessionID string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("tenant_id = ? AND id = ?", tenantID, sessionID)
}

func nextSeq(tx *gorm.DB, tenantID, sessionID string) *gorm.DB {
	return tx.Model(&models.AgentMessage{}).
		Select("COALESCE(MAX(seq), 0) + 1").
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID)
}

// Append locks the session row, assigns the next seq and touches
// last_message_at in one transaction.
func (r *GormRepository) Append(ctx context.Context, msg *models.AgentMessage, at time.Time) (*models.AgentMessage, error) {
	var out *models.AgentMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.AgentSession
		err := lockSession(tx, msg.TenantID, msg.SessionID).First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var seq int
		if err := nextSeq(tx, msg.TenantID, msg.SessionID).Scan(&seq).Error; err != nil {
			return err
		}
		msg.Seq = seq
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AgentSession{}).
			Where("tenant_id = ? AND id = ?", msg.TenantID, msg.SessionID).
			Update("last_message_at", at).Error; err != nil {
			return err
		}
		out = msg
		return nil
	})
	return out, err
}
