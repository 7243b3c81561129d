package clients

import (
	"encoding/json"

	"github.com/aben/console/internal/pkg/request"
)

type CreateClientDTO struct {
	ClientType   string          `json:"clientType"   binding:"required,min=1,max=50"`
	Code         *string         `json:"code"         binding:"omitempty,min=1,max=64"`
	Name         string          `json:"name"         binding:"required,min=1,max=255"`
	Description  *string         `json:"description"  binding:"omitempty,max=5000"`
	Status       *string         `json:"status"       binding:"omitempty,oneof=enabled disabled archived"`
	Version      *string         `json:"version"      binding:"omitempty,max=50"`
	Platform     *string         `json:"platform"     binding:"omitempty,max=50"`
	Config       json.RawMessage `json:"config"`
	Capabilities json.RawMessage `json:"capabilities"`
}

// UpdateClientDTO is a partial update; a key that is present and null clears
// a nullable column.
type UpdateClientDTO struct {
	Name         request.Field[string]          `json:"name"`
	Description  request.Field[string]          `json:"description"`
	Status       request.Field[string]          `json:"status"`
	Version      request.Field[string]          `json:"version"`
	Platform     request.Field[string]          `json:"platform"`
	Config       request.Field[json.RawMessage] `json:"config"`
	Capabilities request.Field[json.RawMessage] `json:"capabilities"`
}
