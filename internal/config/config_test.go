package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1NY2/news-collector/internal/sources"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news-collector.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	// Point at a nonexistent file so only defaults apply.
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "qwen-plus" {
		t.Errorf("model = %q", cfg.AI.Model)
	}
	if cfg.Email.Host != "smtp.qq.com" || cfg.Email.Port != "465" {
		t.Errorf("email defaults = %s:%s", cfg.Email.Host, cfg.Email.Port)
	}
	if cfg.Fetch.LimitPerSource != sources.DefaultLimit {
		t.Errorf("limit = %d", cfg.Fetch.LimitPerSource)
	}
	if cfg.Output.Dir != "output" || cfg.Output.DBPath != "news-collector.db" {
		t.Errorf("output defaults = %+v", cfg.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
ai:
  api_key: sk-test
  model: qwen-max
fetch:
  limit_per_source: 7
feeds:
  - name: MyBlog
    description: personal blog
    url: https://blog.example.com/feed
  - name: Noisy
    url: https://noisy.example.com/feed
    disabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "sk-test" || cfg.AI.Model != "qwen-max" {
		t.Errorf("ai config = %+v", cfg.AI)
	}
	if cfg.Fetch.LimitPerSource != 7 {
		t.Errorf("limit = %d", cfg.Fetch.LimitPerSource)
	}

	specs := cfg.FeedSpecs()
	if len(specs) != 2 {
		t.Fatalf("expected 2 feed specs, got %d", len(specs))
	}
	if specs[0].Name != "MyBlog" || !specs[0].Enabled {
		t.Errorf("spec 0 = %+v", specs[0])
	}
	if specs[1].Name != "Noisy" || specs[1].Enabled {
		t.Errorf("disabled feed not mapped: %+v", specs[1])
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AI_MODEL", "qwen-turbo")
	t.Setenv("NEWS_LIMIT_PER_SOURCE", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "qwen-turbo" {
		t.Errorf("model = %q, want env override", cfg.AI.Model)
	}
	if cfg.Fetch.LimitPerSource != 3 {
		t.Errorf("limit = %d, want env override", cfg.Fetch.LimitPerSource)
	}
}

func TestLoadDashScopeKeyFallback(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-dash")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "sk-dash" {
		t.Errorf("api key = %q, want DASHSCOPE_API_KEY fallback", cfg.AI.APIKey)
	}
}

func TestLoadFileKeyBeatsDashScopeEnv(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-dash")
	path := writeConfig(t, "ai:\n  api_key: sk-file\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "sk-file" {
		t.Errorf("api key = %q, file value must win over fallback", cfg.AI.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if missing := cfg.Validate(); len(missing) != 1 {
		t.Errorf("expected 1 missing key, got %v", missing)
	}
	cfg.AI.APIKey = "sk-x"
	if missing := cfg.Validate(); len(missing) != 0 {
		t.Errorf("expected no missing keys, got %v", missing)
	}
}

func TestProviderDefaultsToOpenAI(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("provider = %q, want openai default", cfg.AI.Provider)
	}
}

func TestProviderOllamaSelection(t *testing.T) {
	path := writeConfig(t, `
ai:
  provider: ollama
  base_url: http://localhost:11434
  model: llama3.2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", cfg.AI.Provider)
	}
	// Local models need no API key.
	if missing := cfg.Validate(); len(missing) != 0 {
		t.Errorf("ollama provider must validate without an API key, got %v", missing)
	}
}

func TestProviderEnvOverride(t *testing.T) {
	t.Setenv("AI_PROVIDER", "ollama")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("provider = %q, want env override", cfg.AI.Provider)
	}
}

func TestValidateEmail(t *testing.T) {
	cfg := Default()
	if missing := cfg.ValidateEmail(); len(missing) != 3 {
		t.Errorf("expected 3 missing keys, got %v", missing)
	}
	cfg.Email.User = "me@example.com"
	cfg.Email.Password = "secret"
	cfg.Email.To = "you@example.com"
	if missing := cfg.ValidateEmail(); len(missing) != 0 {
		t.Errorf("expected no missing keys, got %v", missing)
	}
}
