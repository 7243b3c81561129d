package llmconfig

import (
	"context"
	"errors"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aben/console/internal/models"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

const probeTimeout = 15 * time.Second

var defaultBaseURLs = map[string]string{
	models.ProviderOpenAI:   "https://api.openai.com/v1",
	models.ProviderDeepSeek: "https://api.deepseek.com/v1",
	models.ProviderQwen:     "https://dashscope.aliyuncs.com/compatible-mode/v1",
}

// Prober lists the models a provider config can reach.
type Prober interface {
	ListModels(ctx context.Context, cfg models.LLMProviderConfig) ([]string, error)
}

// SDKProber talks to providers through their official SDKs.
type SDKProber struct{}

func (SDKProber) ListModels(ctx context.Context, cfg models.LLMProviderConfig) ([]string, error) {
	apiKey := ""
	if cfg.APIKey != nil {
		apiKey = strings.TrimSpace(*cfg.APIKey)
	}
	if apiKey == "" {
		return nil, errors.New("API key is not configured")
	}
	baseURL := ""
	if cfg.BaseURL != nil {
		baseURL = strings.TrimSpace(*cfg.BaseURL)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if cfg.Provider == models.ProviderAnthropic {
		return listAnthropic(ctx, apiKey, baseURL)
	}

	if baseURL == "" {
		baseURL = defaultBaseURLs[cfg.Provider]
	}
	if baseURL == "" {
		return nil, errors.New("base URL is required for provider " + cfg.Provider)
	}
	return listOpenAICompatible(ctx, cfg.Provider, apiKey, openAIBaseURL(baseURL))
}

func listAnthropic(ctx context.Context, apiKey, baseURL string) ([]string, error) {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	client := anthropicclient.NewClient(opts...)

	page, err := client.Models.List(ctx, anthropicclient.ModelListParams{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func listOpenAICompatible(ctx context.Context, provider, apiKey, baseURL string) ([]string, error) {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
		openaioption.WithBaseURL(baseURL),
	}
	if provider == models.ProviderAzureOpenAI {
		opts = append(opts, openaioption.WithHeader("api-key", apiKey))
	}
	client := openaiclient.NewClient(opts...)

	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// openAIBaseURL appends /v1 to a bare host.
func openAIBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return base
	}
	if parsed.Path == "" {
		parsed.Path = "/v1"
	}
	return strings.TrimRight(parsed.String(), "/")
}
