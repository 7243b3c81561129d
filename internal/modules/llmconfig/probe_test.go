package llmconfig

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aben/console/internal/models"
)

func TestSDKProberOpenAICompatible(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotPath = r.Header.Get("Authorization"), r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o","object":"model","created":1,"owned_by":"openai"},{"id":"gpt-4o-mini","object":"model","created":2,"owned_by":"openai"}]}`))
	}))
	defer srv.Close()

	cfg := models.LLMProviderConfig{Provider: models.ProviderDeepSeek, BaseURL: strp(srv.URL), APIKey: strp("sk-test")}
	ids, err := SDKProber{}.ListModels(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "gpt-4o" {
		t.Fatalf("ids = %v", ids)
	}
	if gotPath != "/v1/models" || gotAuth != "Bearer sk-test" {
		t.Fatalf("path = %q auth = %q", gotPath, gotAuth)
	}
}

func TestSDKProberAnthropic(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey, gotPath = r.Header.Get("X-Api-Key"), r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-sonnet-4-5","type":"model","display_name":"Claude Sonnet 4.5","created_at":"2025-09-29T00:00:00Z"}],"has_more":false,"first_id":"claude-sonnet-4-5","last_id":"claude-sonnet-4-5"}`))
	}))
	defer srv.Close()

	cfg := models.LLMProviderConfig{Provider: models.ProviderAnthropic, BaseURL: strp(srv.URL + "/"), APIKey: strp("ak-test")}
	ids, err := SDKProber{}.ListModels(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "claude-sonnet-4-5" {
		t.Fatalf("ids = %v", ids)
	}
	if gotPath != "/v1/models" || gotKey != "ak-test" {
		t.Fatalf("path = %q key = %q", gotPath, gotKey)
	}
}

func TestSDKProberErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	cases := []models.LLMProviderConfig{
		{Provider: models.ProviderOpenAI},
		{Provider: models.ProviderCustom, APIKey: strp("k")},
		{Provider: models.ProviderOpenAI, APIKey: strp("k"), BaseURL: strp(srv.URL)},
	}
	for _, cfg := range cases {
		if _, err := (SDKProber{}).ListModels(context.Background(), cfg); err == nil {
			t.Fatalf("%+v: expected error", cfg)
		}
	}
}

func TestOpenAIBaseURL(t *testing.T) {
	cases := map[string]string{
		"https://api.example.com":           "https://api.example.com/v1",
		"https://api.example.com/":          "https://api.example.com/v1",
		"https://host/compatible-mode/v1/":  "https://host/compatible-mode/v1",
		"https://x.openai.azure.com/openai": "https://x.openai.azure.com/openai",
	}
	for in, want := range cases {
		if got := openAIBaseURL(in); got != want {
			t.Fatalf("openAIBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}
