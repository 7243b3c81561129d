package llmconfig

import (
	"time"

	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/request"
)

type UpsertDTO struct {
	ID           *string               `json:"id"           binding:"omitempty,uuid"`
	Provider     string                `json:"provider"     binding:"required,oneof=openai anthropic deepseek qwen azure_openai custom"`
	Name         *string               `json:"name"         binding:"omitempty,max=255"`
	BaseURL      *string               `json:"baseUrl"      binding:"omitempty,max=2000"`
	DefaultModel *string               `json:"defaultModel" binding:"omitempty,max=100"`
	IsDefault    *bool                 `json:"isDefault"`
	Status       *string               `json:"status"       binding:"omitempty,oneof=enabled disabled"`
	APIKey       request.Field[string] `json:"apiKey"`
}

// SafeConfig is a provider config without its API key.
type SafeConfig struct {
	ID           string    `json:"id"`
	Provider     string    `json:"provider"`
	Name         *string   `json:"name"`
	BaseURL      *string   `json:"baseUrl"`
	DefaultModel *string   `json:"defaultModel"`
	IsDefault    bool      `json:"isDefault"`
	Status       string    `json:"status"`
	HasAPIKey    bool      `json:"hasApiKey"`
	APIKeyLast4  *string   `json:"apiKeyLast4"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func Safe(c models.LLMProviderConfig) SafeConfig {
	return SafeConfig{
		ID:           c.ID,
		Provider:     c.Provider,
		Name:         c.Name,
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		IsDefault:    c.IsDefault,
		Status:       c.Status,
		HasAPIKey:    c.APIKey != nil && *c.APIKey != "",
		APIKeyLast4:  c.APIKeyLast4,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ProbeResult reports whether the provider answered a models listing.
type ProbeResult struct {
	OK     bool     `json:"ok"`
	Models []string `json:"models"`
	Error  string   `json:"error,omitempty"`
}
