// Package skills stores markdown skill bundles imported from zip archives.
package skills

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"github.com/aben/console/internal/pkg/objectstore"
	"go.uber.org/zap"
)

var errSkillNotFound = apperr.ErrNotFound.WithMessage("Skill not found")

// Archiver keeps a copy of each uploaded archive.
type Archiver interface {
	objectstore.Store
	Key(parts ...string) string
}

type Detail struct {
	SkillKey    string         `json:"skillKey"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Enabled     bool           `json:"enabled"`
	Files       []models.Skill `json:"files"`
}

type ImportResult struct {
	SkillKey  string `json:"skillKey"`
	FileCount int    `json:"fileCount"`
}

type Service struct {
	repo    Repository
	archive Archiver
	pub     events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

// NewService wires the skill store. archive may be nil.
func NewService(repo Repository, archive Archiver, pub events.Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, archive: archive, pub: pub, log: log, now: time.Now}
}

// Import parses the archive and replaces the stored bundle of its key.
func (s *Service) Import(ctx context.Context, fileName string, data []byte) (*ImportResult, error) {
	bundle, err := ParseArchive(fileName, data)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, bundle.SkillKey, bundle.Files); err != nil {
		return nil, fmt.Errorf("replace skill files: %w", err)
	}

	if s.archive != nil {
		key := s.archive.Key(bundle.SkillKey, strconv.FormatInt(s.now().UnixMilli(), 10)+".zip")
		if err := s.archive.Put(ctx, key, data, "application/zip"); err != nil {
			s.log.Warn("skill archive upload failed", zap.String("skill_key", bundle.SkillKey), zap.Error(err))
		}
	}

	s.pub.Publish(events.New(events.SkillImported, map[string]any{
		"skillKey": bundle.SkillKey, "fileCount": len(bundle.Files),
	}))
	return &ImportResult{SkillKey: bundle.SkillKey, FileCount: len(bundle.Files)}, nil
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.ListSummaries(ctx)
}

func (s *Service) Detail(ctx context.Context, skillKey string) (*Detail, error) {
	files, err := s.repo.Files(ctx, skillKey)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errSkillNotFound
	}
	root := files[0]
	d := &Detail{
		SkillKey:    skillKey,
		Name:        skillKey,
		Description: root.Description,
		Enabled:     root.Enabled,
		Files:       files,
	}
	if root.Name != nil {
		d.Name = *root.Name
	}
	return d, nil
}

// Patch toggles the bundle or rewrites one file, then returns the detail.
func (s *Service) Patch(ctx context.Context, skillKey string, dto PatchSkillDTO) (*Detail, error) {
	if dto.Enabled == nil && dto.Path == nil {
		return nil, apperr.Validation("enabled or path/content is required")
	}
	if dto.Path != nil && dto.Content == nil {
		return nil, apperr.Validation("content is required with path")
	}

	if dto.Enabled != nil {
		ok, err := s.repo.SetEnabled(ctx, skillKey, *dto.Enabled)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errSkillNotFound
		}
	}
	if dto.Path != nil {
		ok, err := s.repo.UpdateContent(ctx, skillKey, *dto.Path, *dto.Content)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.ErrNotFound.WithMessage("Skill file not found")
		}
	}
	return s.Detail(ctx, skillKey)
}

// Preview renders the file at path as HTML.
func (s *Service) Preview(ctx context.Context, skillKey, path string) (string, error) {
	files, err := s.repo.Files(ctx, skillKey)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.Path == path {
			return RenderPreview(f.Content)
		}
	}
	if len(files) == 0 {
		return "", errSkillNotFound
	}
	return "", apperr.ErrNotFound.WithMessage("Skill file not found")
}
