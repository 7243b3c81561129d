// Package clients manages the devices and agents registered to a tenant.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aben/console/internal/database"
	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"go.uber.org/zap"
)

const (
	idxTenantCode    = "idx_clients_tenant_code"
	idxTenantAuthKey = "idx_clients_tenant_auth_key"
)

var validStatuses = map[string]bool{
	models.ClientEnabled:  true,
	models.ClientDisabled: true,
	models.ClientArchived: true,
}

type Service struct {
	repo Repository
	pub  events.Publisher
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, pub events.Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, pub: pub, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]models.Client, error) {
	return s.repo.List(ctx, tenantID)
}

// EnabledIDs lists the tenant's enabled client ids.
func (s *Service) EnabledIDs(ctx context.Context, tenantID string) ([]string, error) {
	return s.repo.ListEnabledIDs(ctx, tenantID)
}

// actor is the audit column value for userID; unknown callers record NULL.
func actor(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}

// Create registers a client on behalf of userID. A caller-chosen code that
// collides fails with CLIENT_CODE_IN_USE; generated codes and keys are
// regenerated up to createAttempts times.
func (s *Service) Create(ctx context.Context, tenantID, userID string, dto CreateClientDTO) (*models.Client, error) {
	status := models.ClientEnabled
	if dto.Status != nil {
		status = *dto.Status
	}

	for attempt := 1; attempt <= createAttempts; attempt++ {
		code := NewCode(dto.ClientType)
		if dto.Code != nil {
			code = *dto.Code
		}
		c := &models.Client{
			TenantID:     tenantID,
			ClientType:   dto.ClientType,
			Code:         code,
			Name:         dto.Name,
			Description:  dto.Description,
			Status:       status,
			AuthKey:      NewAuthKey(s.now()),
			Version:      dto.Version,
			Platform:     dto.Platform,
			Config:       models.RawJSON(dto.Config),
			Capabilities: models.RawJSON(dto.Capabilities),
			CreatedBy:    actor(userID),
			UpdatedBy:    actor(userID),
		}

		err := s.repo.Insert(ctx, c)
		if err == nil {
			s.pub.Publish(events.New(events.ClientCreated, map[string]any{
				"tenantId": tenantID, "clientId": c.ID, "clientType": c.ClientType,
			}))
			return c, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("insert client: %w", err)
		}

		switch database.UniqueConstraint(err) {
		case idxTenantCode:
			if dto.Code != nil {
				return nil, apperr.ErrClientCodeInUse
			}
		case idxTenantAuthKey:
		default:
			return nil, apperr.ErrClientCodeInUse.WithMessage("Client create failed on a unique constraint")
		}
		s.log.Warn("client insert collided, retrying", zap.String("tenant_id", tenantID), zap.Int("attempt", attempt))
	}
	return nil, apperr.ErrClientKeyInUse
}

// Update applies the fields present in dto and records userID as the
// last editor.
func (s *Service) Update(ctx context.Context, tenantID, userID, clientID string, dto UpdateClientDTO) (*models.Client, error) {
	patch, err := buildPatch(dto)
	if err != nil {
		return nil, err
	}
	patch["updated_by"] = actor(userID)
	c, err := s.repo.Update(ctx, tenantID, clientID, patch)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if c == nil {
		return nil, apperr.ErrNotFound.WithMessage("Client not found")
	}
	s.pub.Publish(events.New(events.ClientUpdated, map[string]any{
		"tenantId": tenantID, "clientId": c.ID, "status": c.Status,
	}))
	return c, nil
}

func buildPatch(dto UpdateClientDTO) (map[string]any, error) {
	patch := map[string]any{}
	if dto.Name.Set {
		if dto.Name.Value == nil {
			return nil, apperr.Validation("name cannot be null")
		}
		name := strings.TrimSpace(*dto.Name.Value)
		if name == "" || len(name) > 255 {
			return nil, apperr.Validation("name must be 1..255 characters")
		}
		patch["name"] = name
	}
	if dto.Description.Set {
		if dto.Description.Value != nil && len(*dto.Description.Value) > 5000 {
			return nil, apperr.Validation("description must be at most 5000 characters")
		}
		patch["description"] = dto.Description.Value
	}
	if dto.Status.Set {
		if dto.Status.Value == nil || !validStatuses[*dto.Status.Value] {
			return nil, apperr.Validation("status must be one of [enabled disabled archived]")
		}
		patch["status"] = *dto.Status.Value
	}
	if dto.Version.Set {
		if dto.Version.Value != nil && len(*dto.Version.Value) > 50 {
			return nil, apperr.Validation("version must be at most 50 characters")
		}
		patch["version"] = dto.Version.Value
	}
	if dto.Platform.Set {
		if dto.Platform.Value != nil && len(*dto.Platform.Value) > 50 {
			return nil, apperr.Validation("platform must be at most 50 characters")
		}
		patch["platform"] = dto.Platform.Value
	}
	if dto.Config.Set {
		patch["config"] = jsonColumn(dto.Config.Value)
	}
	if dto.Capabilities.Set {
		patch["capabilities"] = jsonColumn(dto.Capabilities.Value)
	}
	if len(patch) == 0 {
		return nil, apperr.Validation("No fields to update")
	}
	return patch, nil
}

func jsonColumn(v *json.RawMessage) models.RawJSON {
	if v == nil {
		return models.RawJSON("{}")
	}
	return models.RawJSON(*v)
}

// RotateKey replaces the client's auth key.
func (s *Service) RotateKey(ctx context.Context, tenantID, userID, clientID string) (*models.Client, error) {
	for attempt := 1; attempt <= createAttempts; attempt++ {
		c, err := s.repo.SetAuthKey(ctx, tenantID, clientID, NewAuthKey(s.now()), actor(userID))
		if err == nil {
			if c == nil {
				return nil, apperr.ErrNotFound.WithMessage("Client not found")
			}
			s.pub.Publish(events.New(events.ClientKeyRotated, map[string]any{
				"tenantId": tenantID, "clientId": c.ID,
			}))
			return c, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("rotate client key: %w", err)
		}
	}
	return nil, apperr.ErrClientKeyInUse
}
