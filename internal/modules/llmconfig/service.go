// Package llmconfig manages each tenant's LLM provider connection settings.
package llmconfig

import (
	"context"
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/events"
	"go.uber.org/zap"
)

var errConfigNotFound = apperr.ErrNotFound.WithMessage("Provider config not found")

type Service struct {
	repo   Repository
	prober Prober
	pub    events.Publisher
	log    *zap.Logger
}

// NewService wires the config store. A nil prober uses the provider SDKs.
func NewService(repo Repository, prober Prober, pub events.Publisher, log *zap.Logger) *Service {
	if prober == nil {
		prober = SDKProber{}
	}
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, prober: prober, pub: pub, log: log}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]SafeConfig, error) {
	rows, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]SafeConfig, len(rows))
	for i, r := range rows {
		out[i] = Safe(r)
	}
	return out, nil
}

// Upsert creates a config, or updates it when dto.ID is set.
func (s *Service) Upsert(ctx context.Context, tenantID string, dto UpsertDTO) (*SafeConfig, error) {
	in, err := buildSave(dto)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.Save(ctx, tenantID, in)
	if err != nil {
		return nil, fmt.Errorf("save provider config: %w", err)
	}
	if row == nil {
		return nil, errConfigNotFound
	}

	s.pub.Publish(events.New(events.LLMConfigUpserted, map[string]any{
		"tenantId": tenantID, "provider": row.Provider, "status": row.Status,
	}))
	out := Safe(*row)
	return &out, nil
}

func buildSave(dto UpsertDTO) (Save, error) {
	in := Save{
		Provider:     dto.Provider,
		Name:         optionalText(dto.Name),
		DefaultModel: optionalText(dto.DefaultModel),
		Status:       models.LLMConfigEnabled,
		IsDefault:    dto.IsDefault,
	}
	if id := optionalText(dto.ID); id != nil {
		in.ID = *id
	}
	if dto.Status != nil {
		in.Status = *dto.Status
	}
	if raw := optionalText(dto.BaseURL); raw != nil {
		u, err := normalizeBaseURL(*raw)
		if err != nil {
			return Save{}, err
		}
		in.BaseURL = &u
	}
	if dto.APIKey.Set {
		in.UpdateAPIKey = true
		in.APIKey = optionalText(dto.APIKey.Value)
		in.APIKeyLast4 = last4(in.APIKey)
	}
	return in, nil
}

// normalizeBaseURL accepts absolute http(s) URLs and drops trailing slashes.
func normalizeBaseURL(raw string) (string, error) {
	u, err := neturl.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.Validation("Invalid base URL")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func last4(key *string) *string {
	if key == nil || len(*key) < 4 {
		return nil
	}
	tail := (*key)[len(*key)-4:]
	return &tail
}

func (s *Service) Delete(ctx context.Context, tenantID, userID, id string) (string, error) {
	row, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return "", fmt.Errorf("delete provider config: %w", err)
	}
	if row == nil {
		return "", errConfigNotFound
	}
	s.pub.Publish(events.New(events.LLMConfigDeleted, map[string]any{
		"tenantId": tenantID, "userId": userID, "configId": row.ID,
		"provider": row.Provider, "wasDefault": row.IsDefault,
	}))
	return row.ID, nil
}

// Probe lists models with the stored credentials. Provider failures are
// reported in the result, not as an error.
func (s *Service) Probe(ctx context.Context, tenantID, id string) (*ProbeResult, error) {
	row, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errConfigNotFound
	}

	ids, err := s.prober.ListModels(ctx, *row)
	if err != nil {
		s.log.Info("llm provider probe failed",
			zap.String("tenant_id", tenantID),
			zap.String("provider", row.Provider),
			zap.Error(err),
		)
		return &ProbeResult{OK: false, Models: []string{}, Error: err.Error()}, nil
	}
	return &ProbeResult{OK: true, Models: ids}, nil
}
