package skills

import (
	"context"
	"time"

	"github.com/aben/console/internal/models"
	"gorm.io/gorm"
)

// Summary is one skill bundle in the listing.
type Summary struct {
	SkillKey    string    `json:"skillKey"    gorm:"column:skill_key"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	FileCount   int       `json:"fileCount"   gorm:"column:file_count"`
	Enabled     bool      `json:"enabled"     gorm:"column:enabled"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   gorm:"column:updated_at"`
}

const summarySelect = "s.skill_key, " +
	"COALESCE(MAX(CASE WHEN s.path = '' THEN s.name END), MIN(s.name), s.skill_key) AS name, " +
	"MAX(CASE WHEN s.path = '' THEN s.description END) AS description, " +
	"COUNT(*) AS file_count, " +
	"COALESCE(MAX(CASE WHEN s.path = '' THEN s.enabled END), MAX(s.enabled), 1) = 1 AS enabled, " +
	"MIN(s.created_at) AS created_at, " +
	"MAX(s.updated_at) AS updated_at"

type Repository interface {
	Replace(ctx context.Context, skillKey string, files []File) error
	ListSummaries(ctx context.Context) ([]Summary, error)
	Files(ctx context.Context, skillKey string) ([]models.Skill, error)
	SetEnabled(ctx context.Context, skillKey string, enabled bool) (bool, error)
	UpdateContent(ctx context.Context, skillKey, path, content string) (bool, error)
}

type GormRepository struct{ db *gorm.DB }

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{db: db} }

// Replace swaps every row of skillKey for files in one transaction.
func (r *GormRepository) Replace(ctx context.Context, skillKey string, files []File) error {
	rows := make([]models.Skill, len(files))
	for i, f := range files {
		rows[i] = models.Skill{
			SkillKey:    skillKey,
			Path:        f.Path,
			Name:        f.Name,
			Description: f.Description,
			Content:     f.Content,
			ContentType: "text/markdown",
			Enabled:     true,
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("skill_key = ?", skillKey).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

func (r *GormRepository) summaries(tx *gorm.DB) *gorm.DB {
	return tx.Table("skills AS s").
		Select(summarySelect).
		Group("s.skill_key").
		Order("created_at DESC")
}

func (r *GormRepository) ListSummaries(ctx context.Context) ([]Summary, error) {
	out := []Summary{}
	return out, r.summaries(r.db.WithContext(ctx)).Find(&out).Error
}

// Files returns the root document first, then the rest by path.
func (r *GormRepository) Files(ctx context.Context, skillKey string) ([]models.Skill, error) {
	out := []models.Skill{}
	return out, r.db.WithContext(ctx).
		Where("skill_key = ?", skillKey).
		Order("(path = '') DESC, path ASC").
		Find(&out).Error
}

// SetEnabled toggles the root row. It reports whether the root exists.
func (r *GormRepository) SetEnabled(ctx context.Context, skillKey string, enabled bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("skill_key = ? AND path = ?", skillKey, "").
		Update("enabled", enabled)
	return res.RowsAffected > 0, res.Error
}

// UpdateContent replaces one file's content. It reports whether the file exists.
func (r *GormRepository) UpdateContent(ctx context.Context, skillKey, path, content string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("skill_key = ? AND path = ?", skillKey, path).
		Update("content", content)
	return res.RowsAffected > 0, res.Error
}
