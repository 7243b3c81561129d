// Package tasks is the read side of the agent task tracker.
package tasks

import (
	"context"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
)

const (
	DefaultListLimit = 200
	MaxListLimit     = 500
	detailRunLimit   = 50
	detailEventLimit = 200
)

var errTaskNotFound = apperr.ErrNotFound.WithMessage("Task not found")

type Detail struct {
	Task   Task                    `json:"task"`
	Runs   []models.AgentTaskRun   `json:"runs"`
	Events []models.AgentTaskEvent `json:"events"`
}

type Service struct{ repo Repository }

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// List returns the tenant's tasks, most recently updated first.
func (s *Service) List(ctx context.Context, tenantID string, f Filter) ([]Task, error) {
	if f.Limit < 1 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return s.repo.List(ctx, tenantID, f)
}

// Detail returns a task with its latest runs and events.
func (s *Service) Detail(ctx context.Context, tenantID, taskID string) (*Detail, error) {
	t, err := s.repo.Find(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errTaskNotFound
	}
	runs, err := s.repo.Runs(ctx, tenantID, taskID, detailRunLimit)
	if err != nil {
		return nil, err
	}
	evs, err := s.repo.Events(ctx, tenantID, taskID, detailEventLimit)
	if err != nil {
		return nil, err
	}
	return &Detail{Task: *t, Runs: runs, Events: evs}, nil
}
