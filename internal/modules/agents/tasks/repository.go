package tasks

import (
	"context"
	"errors"

	"github.com/aben/console/internal/models"
	"gorm.io/gorm"
)

// Task is an agent task with the title of its session.
type Task struct {
	models.AgentTask
	SessionTitle *string `json:"sessionTitle" gorm:"column:session_title"`
}

// Filter narrows a task listing. Empty fields do not filter.
type Filter struct {
	SessionID string
	Lifecycle string
	Status    string
	Limit     int
}

// Repository reads tasks. Find returns nil, nil when the task does not
// exist in the tenant.
type Repository interface {
	List(ctx context.Context, tenantID string, f Filter) ([]Task, error)
	Find(ctx context.Context, tenantID, taskID string) (*Task, error)
	Runs(ctx context.Context, tenantID, taskID string, limit int) ([]models.AgentTaskRun, error)
	Events(ctx context.Context, tenantID, taskID string, limit int) ([]models.AgentTaskEvent, error)
}

type GormRepository struct{ db *gorm.DB }

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{db: db} }

func taskQuery(tx *gorm.DB, tenantID string) *gorm.DB {
	return tx.Table("agent_tasks AS t").
		Select("t.*, s.title AS session_title").
		Joins("LEFT JOIN agent_sessions s ON s.tenant_id = t.tenant_id AND s.id = t.session_id").
		Where("t.tenant_id = ?", tenantID)
}

func listQuery(tx *gorm.DB, tenantID string, f Filter) *gorm.DB {
	q := taskQuery(tx, tenantID)
	if f.SessionID != "" {
		q = q.Where("t.session_id = ?", f.SessionID)
	}
	if f.Lifecycle != "" {
		q = q.Where("t.lifecycle = ?", f.Lifecycle)
	}
	if f.Status != "" {
		q = q.Where("t.status = ?", f.Status)
	}
	return q.Order("t.updated_at DESC, t.created_at DESC, t.order_no ASC").Limit(f.Limit)
}

func (r *GormRepository) List(ctx context.Context, tenantID string, f Filter) ([]Task, error) {
	out := []Task{}
	return out, listQuery(r.db.WithContext(ctx), tenantID, f).Find(&out).Error
}

func (r *GormRepository) Find(ctx context.Context, tenantID, taskID string) (*Task, error) {
	var t Task
	err := taskQuery(r.db.WithContext(ctx), tenantID).Where("t.id = ?", taskID).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func runsQuery(tx *gorm.DB, tenantID, taskID string, limit int) *gorm.DB {
	return tx.Where("tenant_id = ? AND task_id = ?", tenantID, taskID).
		Order("run_no DESC").
		Limit(limit)
}

func (r *GormRepository) Runs(ctx context.Context, tenantID, taskID string, limit int) ([]models.AgentTaskRun, error) {
	out := []models.AgentTaskRun{}
	return out, runsQuery(r.db.WithContext(ctx), tenantID, taskID, limit).Find(&out).Error
}

func eventsQuery(tx *gorm.DB, tenantID, taskID string, limit int) *gorm.DB {
	return tx.Where("tenant_id = ? AND task_id = ?", tenantID, taskID).
		Order("occurred_at DESC").
		Limit(limit)
}

func (r *GormRepository) Events(ctx context.Context, tenantID, taskID string, limit int) ([]models.AgentTaskEvent, error) {
	out := []models.AgentTaskEvent{}
	return out, eventsQuery(r.db.WithContext(ctx), tenantID, taskID, limit).Find(&out).Error
}
