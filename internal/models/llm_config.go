package models

const (
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderDeepSeek    = "deepseek"
	ProviderQwen        = "qwen"
	ProviderAzureOpenAI = "azure_openai"
	ProviderCustom      = "custom"
)

const (
	LLMConfigEnabled  = "enabled"
	LLMConfigDisabled = "disabled"
)

// LLMProviderConfig is a tenant's connection settings for one LLM provider.
type LLMProviderConfig struct {
	Base
	TenantID     string  `json:"tenantId"     gorm:"type:char(36);not null;index:idx_llm_configs_tenant"`
	Provider     string  `json:"provider"     gorm:"size:32;not null"`
	Name         *string `json:"name"         gorm:"size:255"`
	BaseURL      *string `json:"baseUrl"      gorm:"size:512"`
	DefaultModel *string `json:"defaultModel" gorm:"size:255"`
	IsDefault    bool    `json:"isDefault"    gorm:"not null;default:false"`
	Status       string  `json:"status"       gorm:"size:16;not null;default:enabled"`
	APIKey       *string `json:"-"            gorm:"type:text"`
	APIKeyLast4  *string `json:"apiKeyLast4"  gorm:"size:4"`
}

func (LLMProviderConfig) TableName() string { return "llm_provider_configs" }
