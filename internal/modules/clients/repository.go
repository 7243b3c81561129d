package clients

import (
	"context"
	"errors"

	"github.com/aben/console/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists clients. Update and SetAuthKey return nil, nil when
// the client does not exist in the tenant.
type Repository interface {
	List(ctx context.Context, tenantID string) ([]models.Client, error)
	Insert(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, tenantID, clientID string, patch map[string]any) (*models.Client, error)
	SetAuthKey(ctx context.Context, tenantID, clientID, authKey string, updatedBy *string) (*models.Client, error)
	ListEnabledIDs(ctx context.Context, tenantID string) ([]string, error)
}

type GormRepository struct{ db *gorm.DB }

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{db: db} }

func (r *GormRepository) List(ctx context.Context, tenantID string) ([]models.Client, error) {
	out := []models.Client{}
	return out, r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&out).Error
}

func (r *GormRepository) Insert(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) Update(ctx context.Context, tenantID, clientID string, patch map[string]any) (*models.Client, error) {
	var out *models.Client
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Client
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND id = ?", tenantID, clientID).
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&c).Updates(patch).Error; err != nil {
			return err
		}
		if err := tx.First(&c, "id = ?", c.ID).Error; err != nil {
			return err
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *GormRepository) SetAuthKey(ctx context.Context, tenantID, clientID, authKey string, updatedBy *string) (*models.Client, error) {
	return r.Update(ctx, tenantID, clientID, map[string]any{"auth_key": authKey, "updated_by": updatedBy})
}

// ListEnabledIDs returns enabled client ids, oldest first.
func (r *GormRepository) ListEnabledIDs(ctx context.Context, tenantID string) ([]string, error) {
	ids := []string{}
	return ids, r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("tenant_id = ? AND status = ?", tenantID, models.ClientEnabled).
		Order("created_at ASC").
		Pluck("id", &ids).Error
}
