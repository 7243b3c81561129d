package llmconfig

import (
	"context"
	"errors"

	"github.com/aben/console/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Save is a normalized upsert. A nil IsDefault leaves the flag untouched on
// update; true makes the row the tenant's only default.
type Save struct {
	ID           string
	Provider     string
	Name         *string
	BaseURL      *string
	DefaultModel *string
	Status       string
	IsDefault    *bool
	UpdateAPIKey bool
	APIKey       *string
	APIKeyLast4  *string
}

// Repository persists provider configs. Get, Save on an unknown id and
// Delete return nil, nil when the row does not exist in the tenant.
type Repository interface {
	List(ctx context.Context, tenantID string) ([]models.LLMProviderConfig, error)
	Get(ctx context.Context, tenantID, id string) (*models.LLMProviderConfig, error)
	Save(ctx context.Context, tenantID string, in Save) (*models.LLMProviderConfig, error)
	Delete(ctx context.Context, tenantID, id string) (*models.LLMProviderConfig, error)
}

type GormRepository struct{ db *gorm.DB }

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{db: db} }

func listQuery(tx *gorm.DB, tenantID string) *gorm.DB {
	return tx.Where("tenant_id = ?", tenantID).
		Order("provider ASC, is_default DESC, updated_at DESC, created_at DESC")
}

func (r *GormRepository) List(ctx context.Context, tenantID string) ([]models.LLMProviderConfig, error) {
	out := []models.LLMProviderConfig{}
	return out, listQuery(r.db.WithContext(ctx), tenantID).Find(&out).Error
}

func (r *GormRepository) Get(ctx context.Context, tenantID, id string) (*models.LLMProviderConfig, error) {
	var c models.LLMProviderConfig
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) Save(ctx context.Context, tenantID string, in Save) (*models.LLMProviderConfig, error) {
	var out *models.LLMProviderConfig
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.LLMProviderConfig
		if in.ID == "" {
			c = models.LLMProviderConfig{
				TenantID:     tenantID,
				Provider:     in.Provider,
				Name:         in.Name,
				BaseURL:      in.BaseURL,
				DefaultModel: in.DefaultModel,
				Status:       in.Status,
				APIKey:       in.APIKey,
				APIKeyLast4:  in.APIKeyLast4,
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		} else {
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("tenant_id = ? AND id = ?", tenantID, in.ID).
				First(&c).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&c).Updates(updateColumns(in)).Error; err != nil {
				return err
			}
		}

		if in.IsDefault != nil && *in.IsDefault {
			if err := clearDefaults(tx, tenantID); err != nil {
				return err
			}
			if err := tx.Model(&models.LLMProviderConfig{}).
				Where("tenant_id = ? AND id = ?", tenantID, c.ID).
				Update("is_default", true).Error; err != nil {
				return err
			}
		}

		if err := tx.First(&c, "id = ?", c.ID).Error; err != nil {
			return err
		}
		out = &c
		return nil
	})
	return out, err
}

func updateColumns(in Save) map[string]any {
	cols := map[string]any{
		"provider":      in.Provider,
		"name":          in.Name,
		"base_url":      in.BaseURL,
		"default_model": in.DefaultModel,
		"status":        in.Status,
	}
	if in.UpdateAPIKey {
		cols["api_key"] = in.APIKey
		cols["api_key_last4"] = in.APIKeyLast4
	}
	if in.IsDefault != nil && !*in.IsDefault {
		cols["is_default"] = false
	}
	return cols
}

func clearDefaults(tx *gorm.DB, tenantID string) error {
	return tx.Model(&models.LLMProviderConfig{}).
		Where("tenant_id = ? AND is_default = ?", tenantID, true).
		Update("is_default", false).Error
}

func (r *GormRepository) Delete(ctx context.Context, tenantID, id string) (*models.LLMProviderConfig, error) {
	var out *models.LLMProviderConfig
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.LLMProviderConfig
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND id = ?", tenantID, id).
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&c).Error; err != nil {
			return err
		}
		out = &c
		return nil
	})
	return out, err
}
